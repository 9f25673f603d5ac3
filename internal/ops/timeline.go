package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/cabinplan/internal/config"
	"github.com/hpungsan/cabinplan/internal/db"
	"github.com/hpungsan/cabinplan/internal/project"
)

// TimelineInput contains parameters for the Timeline operation.
type TimelineInput struct {
	ID string
}

// TimelineOutput contains the result of the Timeline operation.
type TimelineOutput struct {
	ProjectID string          `json:"project_id"`
	Policy    string          `json:"policy"`
	Phases    []project.Phase `json:"phases"`
}

// Timeline returns the ordered construction phases for a stored project.
func Timeline(ctx context.Context, database *sql.DB, cfg *config.Config, input TimelineInput) (*TimelineOutput, error) {
	id, err := ValidateID(input.ID)
	if err != nil {
		return nil, err
	}

	p, err := db.GetProject(ctx, database, id, false)
	if err != nil {
		return nil, err
	}

	return &TimelineOutput{
		ProjectID: id,
		Policy:    string(engine(cfg).Classifier().Policy()),
		Phases:    session(cfg, *p).RequestTimeline(),
	}, nil
}
