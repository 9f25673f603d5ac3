package db

import (
	"context"
	"database/sql"

	"github.com/hpungsan/cabinplan/internal/errors"
	"github.com/hpungsan/cabinplan/internal/project"
)

// seedTemplates inserts templates that are not already present, keeping
// their slice order as display order.
func seedTemplates(ctx context.Context, q Querier, templates []project.Template) error {
	query := `
		INSERT OR IGNORE INTO templates (
			id, name, description, default_width, default_length, preview_image, position
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for i, t := range templates {
		if _, err := q.ExecContext(ctx, query,
			t.ID, t.Name, t.Description, t.DefaultWidth, t.DefaultLength,
			toNullString(t.PreviewImage), i,
		); err != nil {
			return err
		}
	}
	return nil
}

// ListTemplates returns every template in display order.
func ListTemplates(ctx context.Context, q Querier) ([]project.Template, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, description, default_width, default_length, preview_image
		FROM templates
		ORDER BY position, id
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var templates []project.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		templates = append(templates, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return templates, nil
}

// GetTemplate retrieves a template by id.
func GetTemplate(ctx context.Context, q Querier, id string) (*project.Template, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, name, description, default_width, default_length, preview_image
		FROM templates
		WHERE id = ?
	`, id)

	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewTemplateNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return t, nil
}

func scanTemplate(row scanner) (*project.Template, error) {
	var (
		t       project.Template
		preview sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.DefaultWidth, &t.DefaultLength, &preview); err != nil {
		return nil, err
	}
	t.PreviewImage = fromNullString(preview)
	return &t, nil
}

// Catalog serves templates from the database.
type Catalog struct {
	q Querier
}

// NewCatalog returns a template catalog backed by q.
func NewCatalog(q Querier) *Catalog {
	return &Catalog{q: q}
}

// ListTemplates implements project.TemplateCatalog.
func (c *Catalog) ListTemplates(ctx context.Context) ([]project.Template, error) {
	return ListTemplates(ctx, c.q)
}

// GetTemplate implements project.TemplateCatalog.
func (c *Catalog) GetTemplate(ctx context.Context, id string) (*project.Template, error) {
	return GetTemplate(ctx, c.q, id)
}

var _ project.TemplateCatalog = (*Catalog)(nil)
