package project

import "math"

// Area returns the floor area for the given dimensions. Negative input is
// clamped to zero before multiplying; a product that is not finite yields 0.
func Area(width, length float64) float64 {
	a := max(0, width) * max(0, length)
	if math.IsInf(a, 0) || math.IsNaN(a) {
		return 0
	}
	return a
}

// derivation recomputes one derived field from its source fields.
type derivation struct {
	field   Field
	sources []Field
	apply   func(p *Project, est *Estimator)
}

// derivations is the dependency map {derived field -> source fields}.
// Entries run in order after a merge when any of their sources changed.
var derivations = []derivation{
	{
		field:   FieldArea,
		sources: []Field{FieldWidth, FieldLength},
		apply: func(p *Project, _ *Estimator) {
			p.Area = Area(p.Width, p.Length)
		},
	},
	{
		field:   FieldEstimatedCost,
		sources: []Field{FieldWidth, FieldLength, FieldFoundationType, FieldWallMaterial, FieldRoofMaterial},
		apply: func(p *Project, est *Estimator) {
			total := est.Estimate(*p).Total
			p.EstimatedCost = &total
		},
	},
}

// Sources returns the source fields of a derived field, or nil if the field
// is not derived.
func Sources(derived Field) []Field {
	for _, d := range derivations {
		if d.field == derived {
			return append([]Field(nil), d.sources...)
		}
	}
	return nil
}

// derive runs every derivation whose sources intersect changed.
func derive(p *Project, changed map[Field]bool, est *Estimator) {
	for _, d := range derivations {
		for _, src := range d.sources {
			if changed[src] {
				d.apply(p, est)
				break
			}
		}
	}
}
