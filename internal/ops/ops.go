package ops

import (
	"strings"
	"time"

	"github.com/hpungsan/cabinplan/internal/config"
	"github.com/hpungsan/cabinplan/internal/errors"
	"github.com/hpungsan/cabinplan/internal/project"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// now is the clock every operation stamps timestamps with.
var now = time.Now

// ValidateID trims id and rejects an empty one.
func ValidateID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewInvalidRequest("id is required")
	}
	return id, nil
}

// listLimit applies the configured default and the hard cap to a requested page size.
func listLimit(cfg *config.Config, requested int) int {
	limit := requested
	if limit <= 0 && cfg != nil {
		limit = cfg.DefaultListLimit
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

// engine returns cfg, or defaults when cfg is nil.
func engine(cfg *config.Config) *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

// session opens an editing session on p using cfg's pricing and phase policy.
func session(cfg *config.Config, p project.Project, opts ...project.StoreOption) *project.Store {
	cfg = engine(cfg)
	opts = append([]project.StoreOption{
		project.WithEstimator(cfg.Estimator()),
		project.WithClassifier(cfg.Classifier()),
		project.WithClock(now),
	}, opts...)
	return project.NewStore(p, opts...)
}
