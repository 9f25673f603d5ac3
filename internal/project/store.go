package project

import (
	"sync"
	"time"
)

// Store owns one project's mutable field set for an editing session.
// Calls are serialised: each ApplyUpdate fully completes (merge and derive)
// before the next one is observed.
type Store struct {
	mu         sync.Mutex
	current    Project
	estimator  *Estimator
	classifier *Classifier
	now        func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithEstimator sets the estimator used for the estimatedCost derivation
// and RequestEstimate.
func WithEstimator(e *Estimator) StoreOption {
	return func(s *Store) {
		if e != nil {
			s.estimator = e
		}
	}
}

// WithClassifier sets the classifier used by RequestTimeline.
func WithClassifier(c *Classifier) StoreOption {
	return func(s *Store) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithClock sets the time source for UpdatedAt.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a Store holding p.
func NewStore(p Project, opts ...StoreOption) *Store {
	s := &Store{
		current:    p,
		estimator:  NewEstimator(nil, 1),
		classifier: NewClassifier(PolicyStatic),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApplyUpdate merges u into the current project, recomputes derived fields
// and returns the updated project along with whether any recognized field
// was present. Malformed numbers become 0 and unrecognized fields are
// ignored; it never fails.
func (s *Store) ApplyUpdate(u Update) (Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed bool
	s.current, changed = Apply(s.current, u, s.estimator, s.now())
	return s.current, changed
}

// Current returns a copy of the current project.
func (s *Store) Current() Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// RequestEstimate returns the cost estimate for the current project.
func (s *Store) RequestEstimate() Estimate {
	return s.estimator.Estimate(s.Current())
}

// RequestTimeline returns the construction timeline for the current project.
func (s *Store) RequestTimeline() []Phase {
	return s.classifier.Classify(s.Current())
}
