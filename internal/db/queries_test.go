package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/hpungsan/cabinplan/internal/errors"
	"github.com/hpungsan/cabinplan/internal/project"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestProject(id string, updatedAt int64) *project.Project {
	return &project.Project{
		ID:        id,
		Name:      "Test " + id,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
}

func stringPtr(s string) *string {
	return &s
}

func TestInsertAndGetProject(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	cost := project.Money(1234567)
	p := newTestProject("01ABC123", 1000)
	p.TemplateID = stringPtr("cozy-cabin")
	p.Width, p.Length, p.Height, p.Area = 24, 16, 10, 384
	p.FoundationType = project.FoundationCrawlSpace
	p.WallMaterial = project.WallLog
	p.RoofMaterial = project.RoofCedar
	p.EstimatedCost = &cost

	if err := InsertProject(ctx, db, p); err != nil {
		t.Fatalf("InsertProject failed: %v", err)
	}

	got, err := GetProject(ctx, db, "01ABC123", false)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}

	if got.TemplateID == nil || *got.TemplateID != "cozy-cabin" {
		t.Errorf("TemplateID = %v, want cozy-cabin", got.TemplateID)
	}
	if got.Area != 384 || got.Width != 24 || got.Length != 16 || got.Height != 10 {
		t.Errorf("dimensions = %v x %v x %v (area %v)", got.Width, got.Length, got.Height, got.Area)
	}
	if got.FoundationType != project.FoundationCrawlSpace {
		t.Errorf("FoundationType = %q, want %q", got.FoundationType, project.FoundationCrawlSpace)
	}
	if got.WallMaterial != project.WallLog || got.RoofMaterial != project.RoofCedar {
		t.Errorf("materials = %q/%q", got.WallMaterial, got.RoofMaterial)
	}
	if got.EstimatedCost == nil || *got.EstimatedCost != cost {
		t.Errorf("EstimatedCost = %v, want %v", got.EstimatedCost, cost)
	}
	if got.DeletedAt != nil {
		t.Errorf("DeletedAt = %v, want nil", *got.DeletedAt)
	}
}

func TestInsertProject_BlankSelectionsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := InsertProject(ctx, db, newTestProject("blank", 1)); err != nil {
		t.Fatalf("InsertProject failed: %v", err)
	}
	got, err := GetProject(ctx, db, "blank", false)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got.FoundationType != "" || got.WallMaterial != "" || got.RoofMaterial != "" {
		t.Errorf("selections = %q/%q/%q, want empty", got.FoundationType, got.WallMaterial, got.RoofMaterial)
	}
	if got.EstimatedCost != nil {
		t.Errorf("EstimatedCost = %v, want nil", *got.EstimatedCost)
	}
	if got.TemplateID != nil {
		t.Errorf("TemplateID = %v, want nil", *got.TemplateID)
	}
}

func TestInsertProject_Duplicate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := InsertProject(ctx, db, newTestProject("dup", 1)); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err := InsertProject(ctx, db, newTestProject("dup", 2))
	if !errors.Is(err, errors.ErrConflict) {
		t.Errorf("second insert error = %v, want CONFLICT", err)
	}
}

func TestInsertProject_UnknownTemplate(t *testing.T) {
	db := openTestDB(t)

	p := newTestProject("p1", 1)
	p.TemplateID = stringPtr("no-such-template")
	if err := InsertProject(context.Background(), db, p); err == nil {
		t.Error("InsertProject with unknown template_id should fail")
	}
}

func TestGetProject_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := GetProject(context.Background(), db, "nonexistent", false)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetProject should return NOT_FOUND, got: %v", err)
	}
}

func TestUpdateProject(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	p := newTestProject("p1", 100)
	if err := InsertProject(ctx, db, p); err != nil {
		t.Fatalf("InsertProject failed: %v", err)
	}

	p.Width, p.Length, p.Area = 30, 20, 600
	p.RoofMaterial = project.RoofMetal
	p.UpdatedAt = 200
	if err := UpdateProject(ctx, db, p); err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}

	got, err := GetProject(ctx, db, "p1", false)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got.Area != 600 || got.RoofMaterial != project.RoofMetal {
		t.Errorf("got area %v roof %q, want 600 metal", got.Area, got.RoofMaterial)
	}
	if got.UpdatedAt != 200 || got.CreatedAt != 100 {
		t.Errorf("timestamps = (%d, %d), want (100, 200)", got.CreatedAt, got.UpdatedAt)
	}
}

func TestUpdateProject_NotFound(t *testing.T) {
	db := openTestDB(t)

	err := UpdateProject(context.Background(), db, newTestProject("missing", 1))
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("UpdateProject should return NOT_FOUND, got: %v", err)
	}
}

func TestSoftDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := InsertProject(ctx, db, newTestProject("p1", 1)); err != nil {
		t.Fatalf("InsertProject failed: %v", err)
	}
	if err := SoftDelete(ctx, db, "p1", 50); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	if _, err := GetProject(ctx, db, "p1", false); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("deleted project visible without includeDeleted: %v", err)
	}

	got, err := GetProject(ctx, db, "p1", true)
	if err != nil {
		t.Fatalf("GetProject(includeDeleted) failed: %v", err)
	}
	if got.DeletedAt == nil || *got.DeletedAt != 50 {
		t.Errorf("DeletedAt = %v, want 50", got.DeletedAt)
	}

	// Deleted projects can't be updated or deleted again
	if err := UpdateProject(ctx, db, got); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("UpdateProject on deleted = %v, want NOT_FOUND", err)
	}
	if err := SoftDelete(ctx, db, "p1", 60); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second SoftDelete = %v, want NOT_FOUND", err)
	}
}

func TestListProjects_OrderingAndPagination(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// p3 and p4 share updated_at; id DESC breaks the tie
	for i, ts := range []int64{10, 30, 20, 20} {
		if err := InsertProject(ctx, db, newTestProject(fmt.Sprintf("p%d", i+1), ts)); err != nil {
			t.Fatalf("InsertProject failed: %v", err)
		}
	}

	all, total, err := ListProjects(ctx, db, ListFilters{Limit: 10})
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	want := []string{"p2", "p4", "p3", "p1"}
	if len(all) != len(want) {
		t.Fatalf("len = %d, want %d", len(all), len(want))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("all[%d].ID = %q, want %q", i, all[i].ID, id)
		}
	}

	page, total, err := ListProjects(ctx, db, ListFilters{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListProjects page failed: %v", err)
	}
	if total != 4 || len(page) != 2 || page[0].ID != "p3" {
		t.Errorf("page = %v (total %d), want p3,p1 of 4", page, total)
	}
}

func TestListProjects_IncludeDeleted(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := InsertProject(ctx, db, newTestProject(id, 1)); err != nil {
			t.Fatalf("InsertProject failed: %v", err)
		}
	}
	if err := SoftDelete(ctx, db, "a", 2); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	active, total, err := ListProjects(ctx, db, ListFilters{Limit: 10})
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if total != 1 || len(active) != 1 || active[0].ID != "b" {
		t.Errorf("active = %v (total %d), want [b]", active, total)
	}

	_, total, err = ListProjects(ctx, db, ListFilters{Limit: 10, IncludeDeleted: true})
	if err != nil {
		t.Fatalf("ListProjects(includeDeleted) failed: %v", err)
	}
	if total != 2 {
		t.Errorf("total with deleted = %d, want 2", total)
	}
}

func TestListProjects_Empty(t *testing.T) {
	db := openTestDB(t)

	got, total, err := ListProjects(context.Background(), db, ListFilters{Limit: 5})
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if got == nil || len(got) != 0 || total != 0 {
		t.Errorf("ListProjects = %v (total %d), want empty non-nil", got, total)
	}
}

func TestPurgeDeleted(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"old", "recent", "active"} {
		if err := InsertProject(ctx, db, newTestProject(id, 1)); err != nil {
			t.Fatalf("InsertProject failed: %v", err)
		}
	}
	if err := SoftDelete(ctx, db, "old", 100); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	if err := SoftDelete(ctx, db, "recent", 500); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	n, err := PurgeDeleted(ctx, db, 200)
	if err != nil {
		t.Fatalf("PurgeDeleted failed: %v", err)
	}
	if n != 1 {
		t.Errorf("purged = %d, want 1", n)
	}
	if _, err := GetProject(ctx, db, "old", true); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("old project still present: %v", err)
	}
	if _, err := GetProject(ctx, db, "recent", true); err != nil {
		t.Errorf("recent project purged early: %v", err)
	}
	if _, err := GetProject(ctx, db, "active", false); err != nil {
		t.Errorf("active project purged: %v", err)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	boom := stderrors.New("boom")

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := InsertProject(ctx, tx, newTestProject("tx1", 1)); err != nil {
			return err
		}
		return boom
	})
	if err != boom {
		t.Fatalf("WithTx error = %v, want %v", err, boom)
	}
	if _, err := GetProject(ctx, db, "tx1", true); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("rolled back insert is visible: %v", err)
	}

	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		return InsertProject(ctx, tx, newTestProject("tx2", 1))
	})
	if err != nil {
		t.Fatalf("WithTx commit error = %v", err)
	}
	if _, err := GetProject(ctx, db, "tx2", false); err != nil {
		t.Errorf("committed insert missing: %v", err)
	}
}

func TestCatalog(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	catalog := NewCatalog(db)

	templates, err := catalog.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("ListTemplates failed: %v", err)
	}
	builtin := project.BuiltinTemplates()
	if len(templates) != len(builtin) {
		t.Fatalf("len = %d, want %d", len(templates), len(builtin))
	}
	for i := range builtin {
		if templates[i].ID != builtin[i].ID {
			t.Errorf("templates[%d].ID = %q, want %q", i, templates[i].ID, builtin[i].ID)
		}
	}

	tmpl, err := catalog.GetTemplate(ctx, "cozy-cabin")
	if err != nil {
		t.Fatalf("GetTemplate failed: %v", err)
	}
	if tmpl.DefaultWidth != 24 || tmpl.DefaultLength != 16 {
		t.Errorf("cozy-cabin = %vx%v, want 24x16", tmpl.DefaultWidth, tmpl.DefaultLength)
	}

	if _, err := catalog.GetTemplate(ctx, "castle"); !errors.Is(err, errors.ErrTemplateNotFound) {
		t.Errorf("GetTemplate(castle) = %v, want TEMPLATE_NOT_FOUND", err)
	}
}
