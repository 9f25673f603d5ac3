package project

import "context"

// Template is a read-only preset supplying initial dimensions for a new
// project.
type Template struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	DefaultWidth  float64 `json:"default_width"`
	DefaultLength float64 `json:"default_length"`

	// PreviewImage is an optional image reference (path or URL)
	PreviewImage *string `json:"preview_image,omitempty"`
}

// DefaultArea returns the floor area a project seeded from t starts with.
func (t Template) DefaultArea() float64 {
	return Area(t.DefaultWidth, t.DefaultLength)
}

// TemplateCatalog reads templates from wherever they are stored.
type TemplateCatalog interface {
	ListTemplates(ctx context.Context) ([]Template, error)
	GetTemplate(ctx context.Context, id string) (*Template, error)
}

// BuiltinTemplates returns the templates shipped with cabinplan.
// Descriptions are markdown.
func BuiltinTemplates() []Template {
	return []Template{
		{
			ID:            "cozy-cabin",
			Name:          "Cozy Cabin",
			Description:   "A single-room **weekend cabin** with a sleeping loft.\n\n- One open living space\n- Room for a wood stove",
			DefaultWidth:  24,
			DefaultLength: 16,
		},
		{
			ID:            "a-frame",
			Name:          "A-Frame Retreat",
			Description:   "Steep roof lines that shed snow. The roof *is* most of the wall, so pick roofing carefully.",
			DefaultWidth:  20,
			DefaultLength: 30,
		},
		{
			ID:            "tiny-home",
			Name:          "Tiny Home",
			Description:   "Compact footprint sized for a trailer bed.\n\nKeep height under the road limit.",
			DefaultWidth:  8,
			DefaultLength: 20,
		},
		{
			ID:            "family-lodge",
			Name:          "Family Lodge",
			Description:   "Two bedrooms, a great room and a covered porch.\n\n1. Plan the foundation first\n2. Framing needs a crew",
			DefaultWidth:  40,
			DefaultLength: 32,
		},
	}
}
