package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/cabinplan/internal/errors"
	"github.com/hpungsan/cabinplan/internal/project"
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const projectColumns = `
	id, template_id, name, width, length, height, area,
	foundation_type, wall_material, roof_material, estimated_cost_cents,
	created_at, updated_at, deleted_at`

// InsertProject stores a new project.
func InsertProject(ctx context.Context, q Querier, p *project.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err := q.ExecContext(ctx, query,
		p.ID, toNullString(p.TemplateID), p.Name, p.Width, p.Length, p.Height, p.Area,
		enumNull(string(p.FoundationType)), enumNull(string(p.WallMaterial)), enumNull(string(p.RoofMaterial)),
		toNullMoney(p.EstimatedCost), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewConflict("project already exists: " + p.ID)
		}
		return errors.NewInternal(err)
	}
	return nil
}

// GetProject retrieves a project by its ULID.
// If includeDeleted is false, soft-deleted projects are excluded.
func GetProject(ctx context.Context, q Querier, id string, includeDeleted bool) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	p, err := scanProject(q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return p, nil
}

// UpdateProject writes every mutable column of an active project,
// including the derived ones and updated_at as carried by p.
func UpdateProject(ctx context.Context, q Querier, p *project.Project) error {
	query := `
		UPDATE projects
		SET name = ?, width = ?, length = ?, height = ?, area = ?,
			foundation_type = ?, wall_material = ?, roof_material = ?,
			estimated_cost_cents = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := q.ExecContext(ctx, query,
		p.Name, p.Width, p.Length, p.Height, p.Area,
		enumNull(string(p.FoundationType)), enumNull(string(p.WallMaterial)), enumNull(string(p.RoofMaterial)),
		toNullMoney(p.EstimatedCost), p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return requireRow(result, p.ID)
}

// ListFilters narrows ListProjects.
type ListFilters struct {
	Limit          int
	Offset         int
	IncludeDeleted bool
}

// ListProjects returns project summaries ordered by most recently updated,
// ties broken by id, along with the total number of matching rows.
func ListProjects(ctx context.Context, q Querier, f ListFilters) ([]project.Summary, int, error) {
	where := " WHERE deleted_at IS NULL"
	if f.IncludeDeleted {
		where = ""
	}

	var total int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects"+where).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + projectColumns + ` FROM projects` + where +
		` ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := q.QueryContext(ctx, query, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	summaries := make([]project.Summary, 0, max(f.Limit, 0))
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		summaries = append(summaries, p.ToSummary())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return summaries, total, nil
}

// SoftDelete marks a project as deleted by setting deleted_at.
func SoftDelete(ctx context.Context, q Querier, id string, now int64) error {
	query := `
		UPDATE projects
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := q.ExecContext(ctx, query, now, id)
	if err != nil {
		return errors.NewInternal(err)
	}
	return requireRow(result, id)
}

// PurgeDeleted permanently removes soft-deleted projects whose deleted_at
// is at or before cutoff. Returns the number of rows removed.
func PurgeDeleted(ctx context.Context, q Querier, cutoff int64) (int, error) {
	result, err := q.ExecContext(ctx,
		"DELETE FROM projects WHERE deleted_at IS NOT NULL AND deleted_at <= ?", cutoff)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}

// requireRow maps a zero-row update to NOT_FOUND.
func requireRow(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type scanner interface {
	Scan(dest ...any) error
}

// scanProject scans a single row into a Project.
func scanProject(row scanner) (*project.Project, error) {
	var (
		p          project.Project
		templateID sql.NullString
		foundation sql.NullString
		wall       sql.NullString
		roof       sql.NullString
		cost       sql.NullInt64
		deletedAt  sql.NullInt64
	)

	err := row.Scan(
		&p.ID, &templateID, &p.Name, &p.Width, &p.Length, &p.Height, &p.Area,
		&foundation, &wall, &roof, &cost,
		&p.CreatedAt, &p.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	p.TemplateID = fromNullString(templateID)
	p.FoundationType = project.FoundationType(foundation.String)
	p.WallMaterial = project.WallMaterial(wall.String)
	p.RoofMaterial = project.RoofMaterial(roof.String)
	if cost.Valid {
		m := project.Money(cost.Int64)
		p.EstimatedCost = &m
	}
	if deletedAt.Valid {
		p.DeletedAt = &deletedAt.Int64
	}

	return &p, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// enumNull stores an empty selection as NULL.
func enumNull(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toNullMoney(m *project.Money) sql.NullInt64 {
	if m == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*m), Valid: true}
}
