package ops

import (
	"context"
	"testing"
	"time"

	"github.com/hpungsan/cabinplan/internal/errors"
)

func TestDelete(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	created, err := Create(ctx, database, nil, CreateInput{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	out, err := Delete(ctx, database, DeleteInput{ID: created.ID})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !out.Deleted || out.ID != created.ID {
		t.Errorf("Delete = %+v, want deleted %s", out, created.ID)
	}

	if _, err := Fetch(ctx, database, FetchInput{ID: created.ID}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Fetch after delete should return NOT_FOUND, got: %v", err)
	}

	fetched, err := Fetch(ctx, database, FetchInput{ID: created.ID, IncludeDeleted: true})
	if err != nil {
		t.Fatalf("Fetch(include_deleted) failed: %v", err)
	}
	if fetched.DeletedAt == nil {
		t.Error("DeletedAt = nil, want set")
	}
}

func TestDelete_NotFound(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	if _, err := Delete(ctx, database, DeleteInput{ID: "missing"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Delete error = %v, want NOT_FOUND", err)
	}
	if _, err := Delete(ctx, database, DeleteInput{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Delete without id error = %v, want INVALID_REQUEST", err)
	}
}

func TestPurge(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()
	day := 24 * time.Hour
	start := time.Unix(1_700_000_000, 0)

	setClock(t, start)
	old, err := Create(ctx, database, nil, CreateInput{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	recent, err := Create(ctx, database, nil, CreateInput{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := Delete(ctx, database, DeleteInput{ID: old.ID}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	setClock(t, start.Add(9*day))
	if _, err := Delete(ctx, database, DeleteInput{ID: recent.ID}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	setClock(t, start.Add(10*day))
	out, err := Purge(ctx, database, PurgeInput{OlderThanDays: intPtr(5)})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Purged != 1 {
		t.Errorf("Purged = %d, want 1", out.Purged)
	}
	if out.Message != "Permanently deleted 1 project (deleted more than 5 days ago)" {
		t.Errorf("Message = %q", out.Message)
	}

	out, err = Purge(ctx, database, PurgeInput{})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Purged != 1 {
		t.Errorf("Purged = %d, want 1", out.Purged)
	}

	out, err = Purge(ctx, database, PurgeInput{})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Purged != 0 || out.Message != "No deleted projects to purge" {
		t.Errorf("Purge = %+v, want nothing purged", out)
	}
}

func TestPurge_NegativeDays(t *testing.T) {
	database := setupDB(t)

	_, err := Purge(context.Background(), database, PurgeInput{OlderThanDays: intPtr(-1)})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Purge error = %v, want INVALID_REQUEST", err)
	}
}

func TestFormatPurgeMessage(t *testing.T) {
	tests := []struct {
		count int
		days  *int
		want  string
	}{
		{0, nil, "No deleted projects to purge"},
		{1, nil, "Permanently deleted 1 project"},
		{3, nil, "Permanently deleted 3 projects"},
		{2, intPtr(30), "Permanently deleted 2 projects (deleted more than 30 days ago)"},
	}

	for _, tt := range tests {
		if got := formatPurgeMessage(tt.count, tt.days); got != tt.want {
			t.Errorf("formatPurgeMessage(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}
