package project

import (
	"math"
	"strconv"
	"strings"
)

// Field names a Project attribute addressable in an Update.
type Field string

const (
	FieldName           Field = "name"
	FieldWidth          Field = "width"
	FieldLength         Field = "length"
	FieldHeight         Field = "height"
	FieldFoundationType Field = "foundationType"
	FieldWallMaterial   Field = "wallMaterial"
	FieldRoofMaterial   Field = "roofMaterial"

	// Derived fields. Present in updates they are ignored.
	FieldArea          Field = "area"
	FieldEstimatedCost Field = "estimatedCost"
)

// RawFields lists the fields callers may set, in canonical order.
var RawFields = []Field{
	FieldName,
	FieldWidth,
	FieldLength,
	FieldHeight,
	FieldFoundationType,
	FieldWallMaterial,
	FieldRoofMaterial,
}

// fieldKeys maps a folded key (lowercase, no '_' or '-') to its raw field.
var fieldKeys = func() map[string]Field {
	m := make(map[string]Field, len(RawFields))
	for _, f := range RawFields {
		m[foldKey(string(f))] = f
	}
	return m
}()

// foldKey lowercases a key and drops separators, so "foundation_type",
// "foundationType" and "Foundation-Type" compare equal.
func foldKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

// LookupField resolves a caller-supplied key to a raw field.
// Derived and unknown keys report false.
func LookupField(key string) (Field, bool) {
	f, ok := fieldKeys[foldKey(key)]
	return f, ok
}

// ParseNumber parses user-entered numeric text. Anything that is not a
// finite number yields 0.
func ParseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// MaxDimension bounds a width, length or height in feet. Keeping each
// dimension finite and bounded keeps Area finite and JSON-encodable.
const MaxDimension = 1e6

// ParseDimension parses a dimension like ParseNumber and clamps the result
// to [-MaxDimension, MaxDimension].
func ParseDimension(s string) float64 {
	return math.Max(-MaxDimension, math.Min(MaxDimension, ParseNumber(s)))
}

// FormatNumber renders a float the way ParseNumber reads it back.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseFoundationType returns the matching selection, or "" when unknown.
func ParseFoundationType(s string) FoundationType {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range FoundationTypes {
		if string(v) == s {
			return v
		}
	}
	return ""
}

// ParseWallMaterial returns the matching selection, or "" when unknown.
func ParseWallMaterial(s string) WallMaterial {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range WallMaterials {
		if string(v) == s {
			return v
		}
	}
	return ""
}

// ParseRoofMaterial returns the matching selection, or "" when unknown.
func ParseRoofMaterial(s string) RoofMaterial {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range RoofMaterials {
		if string(v) == s {
			return v
		}
	}
	return ""
}

// isSet reports whether a raw field holds a usable value for phase rules.
func (p *Project) isSet(f Field) bool {
	switch f {
	case FieldName:
		return strings.TrimSpace(p.Name) != ""
	case FieldWidth:
		return p.Width > 0
	case FieldLength:
		return p.Length > 0
	case FieldHeight:
		return p.Height > 0
	case FieldFoundationType:
		return p.FoundationType != ""
	case FieldWallMaterial:
		return p.WallMaterial != ""
	case FieldRoofMaterial:
		return p.RoofMaterial != ""
	}
	return false
}

// setField writes the parsed text value of a raw field.
func (p *Project) setField(f Field, value string) {
	switch f {
	case FieldName:
		p.Name = strings.TrimSpace(value)
	case FieldWidth:
		p.Width = ParseDimension(value)
	case FieldLength:
		p.Length = ParseDimension(value)
	case FieldHeight:
		p.Height = ParseDimension(value)
	case FieldFoundationType:
		p.FoundationType = ParseFoundationType(value)
	case FieldWallMaterial:
		p.WallMaterial = ParseWallMaterial(value)
	case FieldRoofMaterial:
		p.RoofMaterial = ParseRoofMaterial(value)
	}
}
