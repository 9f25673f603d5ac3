package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/cabinplan/internal/config"
	"github.com/hpungsan/cabinplan/internal/project"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Init initializes the SQLite database at baseDir/cabinplan.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.cabinplan.
func Init(baseDir string) (*sql.DB, error) {
	// Create base directory with restricted permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	// Explicit chmod (best-effort, may not work on all platforms)
	_ = os.Chmod(baseDir, 0700)

	// Pragmas in the connection string apply to every pooled connection
	dbPath := filepath.Join(baseDir, "cabinplan.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: projects, templates, builtin template seed
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS templates (
		  id             TEXT PRIMARY KEY,
		  name           TEXT NOT NULL,
		  description    TEXT NOT NULL,
		  default_width  REAL NOT NULL,
		  default_length REAL NOT NULL,
		  preview_image  TEXT,
		  position       INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS projects (
		  id                   TEXT PRIMARY KEY,
		  template_id          TEXT REFERENCES templates(id),
		  name                 TEXT NOT NULL,
		  width                REAL NOT NULL,
		  length               REAL NOT NULL,
		  height               REAL NOT NULL,
		  area                 REAL NOT NULL,
		  foundation_type      TEXT,
		  wall_material        TEXT,
		  roof_material        TEXT,
		  estimated_cost_cents INTEGER,
		  created_at           INTEGER NOT NULL,
		  updated_at           INTEGER NOT NULL,
		  deleted_at           INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_projects_updated
		ON projects(updated_at DESC, id DESC)
		WHERE deleted_at IS NULL;

		CREATE INDEX IF NOT EXISTS idx_projects_deleted
		ON projects(deleted_at)
		WHERE deleted_at IS NOT NULL;
		`
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if _, err := tx.Exec(schema); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := seedTemplates(context.Background(), tx, project.BuiltinTemplates()); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
