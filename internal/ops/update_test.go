package ops

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/hpungsan/cabinplan/internal/config"
	"github.com/hpungsan/cabinplan/internal/errors"
	"github.com/hpungsan/cabinplan/internal/project"
)

func TestUpdate_DerivesArea(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()
	cfg := config.DefaultConfig()

	created, err := Create(ctx, database, cfg, CreateInput{Set: project.Update{"length": "20"}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	out, err := Update(ctx, database, cfg, UpdateInput{ID: created.ID, Set: project.Update{"width": "30"}})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !out.Changed {
		t.Error("Changed = false, want true")
	}
	if out.Area != 600 {
		t.Errorf("Area = %v, want 600", out.Area)
	}
	if len(out.Fields) != 1 || out.Fields[0] != project.FieldWidth {
		t.Errorf("Fields = %v, want [width]", out.Fields)
	}

	fetched, err := Fetch(ctx, database, FetchInput{ID: created.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Area != 600 || fetched.Width != 30 || fetched.Length != 20 {
		t.Errorf("stored = %vx%v area %v, want 30x20 area 600", fetched.Width, fetched.Length, fetched.Area)
	}
}

func TestUpdate_MalformedNumber(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	created, err := Create(ctx, database, nil, CreateInput{Set: project.Update{"width": "12", "length": "10"}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	out, err := Update(ctx, database, nil, UpdateInput{ID: created.ID, Set: project.Update{"width": "notanumber"}})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if out.Width != 0 || out.Area != 0 {
		t.Errorf("width %v area %v, want 0 and 0", out.Width, out.Area)
	}
}

func TestUpdate_UnrecognizedIsNoop(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	setClock(t, time.Unix(1000, 0))
	created, err := Create(ctx, database, nil, CreateInput{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	setClock(t, time.Unix(2000, 0))
	out, err := Update(ctx, database, nil, UpdateInput{ID: created.ID, Set: project.Update{"colour": "red", "area": "99"}})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if out.Changed {
		t.Error("Changed = true, want false")
	}
	if out.UpdatedAt != 1000 {
		t.Errorf("UpdatedAt = %d, want 1000 (untouched)", out.UpdatedAt)
	}
	if out.Area != 0 {
		t.Errorf("Area = %v, want 0 (derived fields are not settable)", out.Area)
	}
	if out.Fields == nil || len(out.Fields) != 0 {
		t.Errorf("Fields = %v, want empty", out.Fields)
	}

	fetched, err := Fetch(ctx, database, FetchInput{ID: created.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.UpdatedAt != 1000 {
		t.Errorf("stored UpdatedAt = %d, want 1000", fetched.UpdatedAt)
	}
}

func TestUpdate_EmptySetIsNoop(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	setClock(t, time.Unix(1000, 0))
	created, err := Create(ctx, database, nil, CreateInput{TemplateID: "cozy-cabin"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	setClock(t, time.Unix(2000, 0))
	for _, set := range []project.Update{nil, {}} {
		out, err := Update(ctx, database, nil, UpdateInput{ID: created.ID, Set: set})
		if err != nil {
			t.Fatalf("Update(%v) failed: %v", set, err)
		}
		if out.Changed {
			t.Error("Changed = true, want false")
		}
		if out.Area != created.Area || out.UpdatedAt != 1000 {
			t.Errorf("got area %v updated %d, want %v and 1000", out.Area, out.UpdatedAt, created.Area)
		}
	}
}

func TestUpdate_HugeDimensionsStayEncodable(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	created, err := Create(ctx, database, nil, CreateInput{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	out, err := Update(ctx, database, nil, UpdateInput{ID: created.ID, Set: project.Update{"width": "1e200", "length": "1e200"}})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if math.IsInf(out.Area, 0) || out.Area != project.MaxDimension*project.MaxDimension {
		t.Errorf("Area = %v, want %v", out.Area, project.MaxDimension*project.MaxDimension)
	}

	fetched, err := Fetch(ctx, database, FetchInput{ID: created.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if _, err := json.Marshal(fetched); err != nil {
		t.Errorf("marshal fetched project: %v", err)
	}

	listed, err := List(ctx, database, nil, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if _, err := json.Marshal(listed); err != nil {
		t.Errorf("marshal list: %v", err)
	}
}

func TestUpdate_StampsUpdatedAt(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	setClock(t, time.Unix(1000, 0))
	created, err := Create(ctx, database, nil, CreateInput{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	setClock(t, time.Unix(3000, 0))
	out, err := Update(ctx, database, nil, UpdateInput{ID: created.ID, Set: project.Update{"name": "Barn"}})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if out.UpdatedAt != 3000 || out.CreatedAt != 1000 {
		t.Errorf("timestamps = (%d, %d), want (1000, 3000)", out.CreatedAt, out.UpdatedAt)
	}
}

func TestUpdate_Validation(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	if _, err := Update(ctx, database, nil, UpdateInput{Set: project.Update{"width": "1"}}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("missing id error = %v, want INVALID_REQUEST", err)
	}
	if _, err := Update(ctx, database, nil, UpdateInput{ID: "missing", Set: project.Update{"width": "1"}}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing project error = %v, want NOT_FOUND", err)
	}
}

func TestUpdate_DeletedProject(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	created, err := Create(ctx, database, nil, CreateInput{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := Delete(ctx, database, DeleteInput{ID: created.ID}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err = Update(ctx, database, nil, UpdateInput{ID: created.ID, Set: project.Update{"width": "1"}})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Update on deleted project = %v, want NOT_FOUND", err)
	}
}
