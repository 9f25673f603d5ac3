package web

import (
	"context"
	"database/sql"
	"html/template"
	"net/http"
	"strconv"

	"github.com/hpungsan/cabinplan/internal/config"
	"github.com/hpungsan/cabinplan/internal/errors"
	"github.com/hpungsan/cabinplan/internal/ops"
	"github.com/hpungsan/cabinplan/internal/project"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	catalog  project.TemplateCatalog
	renderer *Renderer
}

// HandleList handles GET /projects.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	input := ops.ListInput{
		Limit:          parseIntParam(r, "limit", 0),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	}

	result, err := ops.List(r.Context(), h.db, h.cfg, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	templates, err := ops.Templates(r.Context(), h.catalog)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData:   h.renderer.page("Projects", "projects"),
		Items:      result.Items,
		Pagination: result.Pagination,
		Templates:  templates.Items,
		Deleted:    input.IncludeDeleted,
	})
}

// HandleCreate handles POST /projects.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	result, err := ops.Create(r.Context(), h.db, h.cfg, ops.CreateInput{
		TemplateID: r.PostFormValue("template_id"),
		Name:       r.PostFormValue("name"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	location := "/projects/" + result.ID
	switch {
	case isHTMX(r):
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusCreated)
	case wantsJSON(r):
		w.Header().Set("Location", location)
		renderJSON(w, http.StatusCreated, result)
	default:
		http.Redirect(w, r, location, http.StatusSeeOther)
	}
}

// HandleDetail handles GET /projects/{id}.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	fetched, err := ops.Fetch(r.Context(), h.db, ops.FetchInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data, err := h.detailData(r.Context(), fetched.Project)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "detail", data)
}

// HandleUpdate handles POST /projects/{id}. Form fields named after project
// fields are merged; htmx callers get the refreshed derived panel back.
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	result, err := ops.Update(r.Context(), h.db, h.cfg, ops.UpdateInput{
		ID:  r.PathValue("id"),
		Set: formUpdate(r),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.respondDerived(w, r, result.Project, result)
}

// HandlePersistEstimate handles POST /projects/{id}/estimate, storing the
// computed total on the project.
func (h *Handlers) HandlePersistEstimate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := ops.Estimate(r.Context(), h.db, h.cfg, ops.EstimateInput{ID: id, Persist: true})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if !isHTMX(r) && !wantsJSON(r) {
		http.Redirect(w, r, "/projects/"+id, http.StatusSeeOther)
		return
	}

	fetched, err := ops.Fetch(r.Context(), h.db, ops.FetchInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.respondDerived(w, r, fetched.Project, result)
}

// respondDerived answers a write: the derived panel for htmx, result as
// JSON, otherwise a redirect back to the detail page.
func (h *Handlers) respondDerived(w http.ResponseWriter, r *http.Request, p project.Project, result any) {
	switch {
	case isHTMX(r):
		data, err := h.detailData(r.Context(), p)
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		h.renderer.renderBlock(w, http.StatusOK, "detail", "derived-panel", data)
	case wantsJSON(r):
		renderJSON(w, http.StatusOK, result)
	default:
		http.Redirect(w, r, "/projects/"+p.ID, http.StatusSeeOther)
	}
}

// HandleDelete handles DELETE /projects/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/projects")
		w.WriteHeader(http.StatusOK)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/projects", http.StatusFound)
}

// HandlePurge handles POST /projects/purge.
func (h *Handlers) HandlePurge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	input := ops.PurgeInput{}
	if days := r.FormValue("older_than_days"); days != "" {
		d, err := strconv.Atoi(days)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("older_than_days must be an integer"))
			return
		}
		input.OlderThanDays = &d
	}

	result, err := ops.Purge(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<div class="purge-result">` + template.HTMLEscapeString(result.Message) + `</div>`))
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/projects?include_deleted=true", http.StatusFound)
}

// HandleTemplates handles GET /templates.
func (h *Handlers) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Templates(r.Context(), h.catalog)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	cards := make([]TemplateCard, 0, len(result.Items))
	for _, t := range result.Items {
		cards = append(cards, TemplateCard{
			TemplateView:    t,
			DescriptionHTML: renderMarkdown(t.Description),
		})
	}

	h.renderer.renderPage(w, r, "templates", TemplatesPageData{
		PageData: h.renderer.page("Templates", "templates"),
		Items:    cards,
	})
}

// detailData assembles the detail view of p with its live estimate and timeline.
func (h *Handlers) detailData(ctx context.Context, p project.Project) (DetailPageData, error) {
	estimate, err := ops.Estimate(ctx, h.db, h.cfg, ops.EstimateInput{ID: p.ID})
	if err != nil {
		return DetailPageData{}, err
	}
	timeline, err := ops.Timeline(ctx, h.db, h.cfg, ops.TimelineInput{ID: p.ID})
	if err != nil {
		return DetailPageData{}, err
	}

	return DetailPageData{
		PageData:    h.renderer.page(displayName(p), "projects"),
		Project:     p,
		CostLabel:   formatCost(p.EstimatedCost),
		Estimate:    estimate.Estimate,
		Timeline:    timeline,
		Foundations: project.FoundationTypes,
		Walls:       project.WallMaterials,
		Roofs:       project.RoofMaterials,
	}, nil
}

// formUpdate collects the posted values whose names resolve to editable
// project fields. Other form keys are dropped.
func formUpdate(r *http.Request) project.Update {
	u := project.Update{}
	for key, values := range r.PostForm {
		if _, ok := project.LookupField(key); !ok || len(values) == 0 {
			continue
		}
		u[key] = values[len(values)-1]
	}
	return u
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}

// displayName returns the project name, or a shortened ID for unnamed projects.
func displayName(p project.Project) string {
	if p.Name != "" {
		return p.Name
	}
	if len(p.ID) > 10 {
		return p.ID[:10] + "..."
	}
	return p.ID
}
