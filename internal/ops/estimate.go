package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/cabinplan/internal/config"
	"github.com/hpungsan/cabinplan/internal/db"
	"github.com/hpungsan/cabinplan/internal/project"
)

// EstimateInput contains parameters for the Estimate operation.
type EstimateInput struct {
	ID string

	// Persist stores the computed total as the project's estimated cost
	Persist bool
}

// EstimateOutput contains the result of the Estimate operation.
type EstimateOutput struct {
	ProjectID string `json:"project_id"`
	project.Estimate
	TotalLabel string `json:"total_label"`
	Persisted  bool   `json:"persisted"`
}

// Estimate prices a stored project line by line.
func Estimate(ctx context.Context, database *sql.DB, cfg *config.Config, input EstimateInput) (*EstimateOutput, error) {
	id, err := ValidateID(input.ID)
	if err != nil {
		return nil, err
	}

	var (
		estimate  project.Estimate
		persisted bool
	)
	err = db.WithTx(ctx, database, func(tx *sql.Tx) error {
		p, err := db.GetProject(ctx, tx, id, false)
		if err != nil {
			return err
		}

		estimate = session(cfg, *p).RequestEstimate()
		if !input.Persist {
			return nil
		}
		if p.EstimatedCost != nil && *p.EstimatedCost == estimate.Total {
			persisted = true
			return nil
		}

		total := estimate.Total
		p.EstimatedCost = &total
		p.UpdatedAt = now().Unix()
		if err := db.UpdateProject(ctx, tx, p); err != nil {
			return err
		}
		persisted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &EstimateOutput{
		ProjectID:  id,
		Estimate:   estimate,
		TotalLabel: estimate.Total.String(),
		Persisted:  persisted,
	}, nil
}
