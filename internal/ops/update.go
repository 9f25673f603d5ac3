package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/cabinplan/internal/config"
	"github.com/hpungsan/cabinplan/internal/db"
	"github.com/hpungsan/cabinplan/internal/project"
)

// UpdateInput contains parameters for the Update operation.
type UpdateInput struct {
	ID  string
	Set project.Update // field name → text value
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	project.Project
	CostLabel string `json:"estimated_cost_label"`

	// Changed is false when no key in Set named an editable field
	Changed bool `json:"changed"`

	// Fields lists the editable fields that were applied, in canonical order
	Fields []project.Field `json:"fields"`
}

// Update merges field values into a stored project and recomputes its
// derived fields. Read, merge and write happen in one transaction. A Set
// naming no editable field is a no-op that returns the stored project.
func Update(ctx context.Context, database *sql.DB, cfg *config.Config, input UpdateInput) (*UpdateOutput, error) {
	id, err := ValidateID(input.ID)
	if err != nil {
		return nil, err
	}

	var (
		p       *project.Project
		changed bool
	)
	err = db.WithTx(ctx, database, func(tx *sql.Tx) error {
		current, err := db.GetProject(ctx, tx, id, false)
		if err != nil {
			return err
		}

		updated, ok := session(cfg, *current).ApplyUpdate(input.Set)
		p, changed = &updated, ok
		if !ok {
			return nil
		}
		return db.UpdateProject(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	fields := input.Set.Fields()
	if fields == nil {
		fields = []project.Field{}
	}

	return &UpdateOutput{
		Project:   *p,
		CostLabel: p.EstimatedCostLabel(),
		Changed:   changed,
		Fields:    fields,
	}, nil
}
