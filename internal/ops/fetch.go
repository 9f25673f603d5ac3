package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/cabinplan/internal/db"
	"github.com/hpungsan/cabinplan/internal/project"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	IncludeDeleted bool
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	project.Project        // embedded (copy, not pointer)
	CostLabel       string `json:"estimated_cost_label"`
}

// Fetch retrieves a project by ID.
func Fetch(ctx context.Context, database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id, err := ValidateID(input.ID)
	if err != nil {
		return nil, err
	}

	p, err := db.GetProject(ctx, database, id, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	return &FetchOutput{
		Project:   *p,
		CostLabel: p.EstimatedCostLabel(),
	}, nil
}
