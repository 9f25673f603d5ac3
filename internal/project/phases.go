package project

import "fmt"

// Status is a phase's readiness classification.
type Status string

const (
	StatusReady        Status = "ready"
	StatusModerate     Status = "moderate"
	StatusPending      Status = "pending"
	StatusProfessional Status = "professional"
)

// SkillLevel is the minimum skill required to carry out a phase.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillProfessional SkillLevel = "professional"
)

// Skill returns the skill floor for a status.
func (s Status) Skill() SkillLevel {
	switch s {
	case StatusReady:
		return SkillBeginner
	case StatusModerate, StatusPending:
		return SkillIntermediate
	default:
		return SkillProfessional
	}
}

// Affordance is how a status is presented.
type Affordance struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var affordances = map[Status]Affordance{
	StatusReady:        {Icon: "check-circle", Color: "green"},
	StatusModerate:     {Icon: "alert-triangle", Color: "amber"},
	StatusPending:      {Icon: "clock", Color: "gray"},
	StatusProfessional: {Icon: "hard-hat", Color: "red"},
}

// Affordance returns the presentation for a status.
func (s Status) Affordance() Affordance {
	return affordances[s]
}

// rank orders the non-professional statuses by readiness (higher is more ready).
func (s Status) rank() int {
	switch s {
	case StatusReady:
		return 2
	case StatusModerate:
		return 1
	}
	return 0
}

// Phase is one stage of the construction timeline.
type Phase struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
	Status   Status `json:"status"`

	// Duration is an estimated range in days, e.g. "3-5"
	Duration string     `json:"duration_days"`
	Skill    SkillLevel `json:"skill"`
}

// PhasePolicy selects how phase status is assigned.
type PhasePolicy string

const (
	// PolicyStatic assigns each phase a fixed status.
	PolicyStatic PhasePolicy = "static"

	// PolicyCompleteness derives status from which required fields are set.
	PolicyCompleteness PhasePolicy = "completeness"
)

// ParsePhasePolicy validates a policy name. Empty means PolicyStatic.
func ParsePhasePolicy(s string) (PhasePolicy, error) {
	switch PhasePolicy(s) {
	case "", PolicyStatic:
		return PolicyStatic, nil
	case PolicyCompleteness:
		return PolicyCompleteness, nil
	}
	return "", fmt.Errorf("unknown phase policy %q (want %q or %q)", s, PolicyStatic, PolicyCompleteness)
}

// phaseRule describes one phase: its fixed status, the fields it needs and
// the status it earns once those fields are set.
type phaseRule struct {
	name       string
	duration   string
	static     Status
	requires   []Field
	configured Status
}

// phaseRules is the build sequence. Order is the dependency order.
var phaseRules = []phaseRule{
	{
		name:       "Foundation",
		duration:   "3-5",
		static:     StatusReady,
		requires:   []Field{FieldFoundationType, FieldWidth, FieldLength},
		configured: StatusReady,
	},
	{
		name:       "Framing",
		duration:   "7-10",
		static:     StatusModerate,
		requires:   []Field{FieldWallMaterial, FieldHeight},
		configured: StatusModerate,
	},
	{
		name:       "Roofing",
		duration:   "4-6",
		static:     StatusPending,
		requires:   []Field{FieldRoofMaterial},
		configured: StatusModerate,
	},
	{
		name:       "Electrical",
		duration:   "5-7",
		static:     StatusProfessional,
		configured: StatusProfessional,
	},
}

// PhaseNames returns the phase names in build order.
func PhaseNames() []string {
	names := make([]string, len(phaseRules))
	for i, r := range phaseRules {
		names[i] = r.name
	}
	return names
}

// Classifier turns a project into its construction timeline.
type Classifier struct {
	policy PhasePolicy
}

// NewClassifier creates a Classifier for a policy. Unknown policies fall
// back to PolicyStatic.
func NewClassifier(policy PhasePolicy) *Classifier {
	if policy != PolicyCompleteness {
		policy = PolicyStatic
	}
	return &Classifier{policy: policy}
}

// Policy returns the classifier's policy.
func (c *Classifier) Policy() PhasePolicy {
	return c.policy
}

// Classify returns every phase in build order with status, duration and
// skill floor.
func (c *Classifier) Classify(p Project) []Phase {
	phases := make([]Phase, 0, len(phaseRules))

	// ceiling is the readiness of the least ready earlier phase
	ceiling := StatusReady
	for i, r := range phaseRules {
		status := r.static
		if c.policy == PolicyCompleteness && r.configured != StatusProfessional {
			status = r.configured
			for _, f := range r.requires {
				if !p.isSet(f) {
					status = StatusPending
					break
				}
			}
			if status.rank() > ceiling.rank() {
				status = ceiling
			}
			ceiling = status
		}

		phases = append(phases, Phase{
			Name:     r.name,
			Position: i + 1,
			Status:   status,
			Duration: r.duration,
			Skill:    status.Skill(),
		})
	}
	return phases
}
