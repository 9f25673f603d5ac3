package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/cabinplan/internal/errors"
	"github.com/hpungsan/cabinplan/internal/project"
)

// TemplateView is a template with its derived starting area.
type TemplateView struct {
	project.Template
	DefaultArea float64 `json:"default_area"`
}

// TemplatesOutput contains the result of the Templates operation.
type TemplatesOutput struct {
	Items []TemplateView `json:"items"`
}

// Templates lists the template catalog.
func Templates(ctx context.Context, catalog project.TemplateCatalog) (*TemplatesOutput, error) {
	templates, err := catalog.ListTemplates(ctx)
	if err != nil {
		return nil, errors.As(err)
	}

	items := make([]TemplateView, 0, len(templates))
	for _, t := range templates {
		items = append(items, TemplateView{Template: t, DefaultArea: t.DefaultArea()})
	}
	return &TemplatesOutput{Items: items}, nil
}

// TemplateFetchInput contains parameters for the TemplateFetch operation.
type TemplateFetchInput struct {
	ID string
}

// TemplateFetch retrieves one template by id.
func TemplateFetch(ctx context.Context, catalog project.TemplateCatalog, input TemplateFetchInput) (*TemplateView, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	t, err := catalog.GetTemplate(ctx, id)
	if err != nil {
		return nil, errors.As(err)
	}
	return &TemplateView{Template: *t, DefaultArea: t.DefaultArea()}, nil
}
