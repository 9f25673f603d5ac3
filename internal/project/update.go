package project

import (
	"slices"
	"time"
)

// Update is a partial set of raw field values as entered by a user.
// Keys are field names; values are text, parsed per field.
type Update map[string]string

// Fields returns the recognized raw fields in u, in canonical order.
func (u Update) Fields() []Field {
	seen := make(map[Field]bool, len(u))
	for key := range u {
		if f, ok := LookupField(key); ok {
			seen[f] = true
		}
	}
	fields := make([]Field, 0, len(seen))
	for _, f := range RawFields {
		if seen[f] {
			fields = append(fields, f)
		}
	}
	return fields
}

// value returns the text for f. An exact key match wins; otherwise, when
// several spellings of the same field are present, the lexically smallest
// key is used so the result does not depend on map order.
func (u Update) value(f Field) string {
	if v, ok := u[string(f)]; ok {
		return v
	}
	keys := make([]string, 0, 1)
	for key := range u {
		if got, ok := LookupField(key); ok && got == f {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	slices.Sort(keys)
	return u[keys[0]]
}

// Apply merges u into p and recomputes every derived field whose sources
// changed. It returns the updated project and whether any recognized field
// was present. Unrecognized and derived keys are ignored; when nothing is
// recognized p is returned unchanged.
func Apply(p Project, u Update, est *Estimator, now time.Time) (Project, bool) {
	fields := u.Fields()
	if len(fields) == 0 {
		return p, false
	}

	changed := make(map[Field]bool, len(fields))
	for _, f := range fields {
		p.setField(f, u.value(f))
		changed[f] = true
	}

	derive(&p, changed, est)
	p.UpdatedAt = now.Unix()
	return p, true
}

// NewBlank returns a project with blank defaults.
func NewBlank(id string, now time.Time) Project {
	ts := now.Unix()
	return Project{
		ID:        id,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// NewFromTemplate returns a new project seeded with a template's default
// dimensions. The dimensions go through Apply so area is derived the same
// way as for any other update.
func NewFromTemplate(id string, t Template, est *Estimator, now time.Time) Project {
	p := NewBlank(id, now)
	templateID := t.ID
	p.TemplateID = &templateID
	p, _ = Apply(p, Update{
		string(FieldWidth):  FormatNumber(t.DefaultWidth),
		string(FieldLength): FormatNumber(t.DefaultLength),
	}, est, now)
	return p
}
