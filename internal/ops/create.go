package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/cabinplan/internal/config"
	"github.com/hpungsan/cabinplan/internal/db"
	"github.com/hpungsan/cabinplan/internal/errors"
	"github.com/hpungsan/cabinplan/internal/project"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	TemplateID string         // optional; blank defaults when empty
	Name       string         // optional
	Set        project.Update // optional initial field values
}

// CreateOutput contains the result of the Create operation.
type CreateOutput struct {
	project.Project
	CostLabel string `json:"estimated_cost_label"`
}

// Create starts a new project, seeded from a template when one is named.
func Create(ctx context.Context, database *sql.DB, cfg *config.Config, input CreateInput) (*CreateOutput, error) {
	est := engine(cfg).Estimator()
	ts := now()

	id, err := generateULID(ts)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	var p project.Project
	if templateID := strings.TrimSpace(input.TemplateID); templateID != "" {
		t, err := db.GetTemplate(ctx, database, templateID)
		if err != nil {
			return nil, err
		}
		p = project.NewFromTemplate(id, *t, est, ts)
	} else {
		p = project.NewBlank(id, ts)
	}

	initial := project.Update{}
	for k, v := range input.Set {
		initial[k] = v
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		initial[string(project.FieldName)] = name
	}
	p, _ = session(cfg, p, project.WithClock(func() time.Time { return ts })).ApplyUpdate(initial)

	if err := db.InsertProject(ctx, database, &p); err != nil {
		return nil, err
	}

	return &CreateOutput{Project: p, CostLabel: p.EstimatedCostLabel()}, nil
}

// generateULID generates a new ULID.
func generateULID(ts time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(ts), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
