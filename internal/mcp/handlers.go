package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/cabinplan/internal/config"
	"github.com/hpungsan/cabinplan/internal/db"
	"github.com/hpungsan/cabinplan/internal/errors"
	"github.com/hpungsan/cabinplan/internal/ops"
	"github.com/hpungsan/cabinplan/internal/project"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	catalog project.TemplateCatalog
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(database *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: database, cfg: cfg, catalog: db.NewCatalog(database)}
}

// Request types for each tool

// FieldValues is a project update as sent by MCP clients. Values may be
// strings, numbers or booleans; they are turned into text before merging.
type FieldValues map[string]any

// toUpdate converts client values to the text form the project core parses.
func (v FieldValues) toUpdate() project.Update {
	u := make(project.Update, len(v))
	for k, val := range v {
		switch x := val.(type) {
		case nil:
			u[k] = ""
		case string:
			u[k] = x
		case float64:
			u[k] = project.FormatNumber(x)
		case bool:
			u[k] = strconv.FormatBool(x)
		default:
			u[k] = fmt.Sprint(x)
		}
	}
	return u
}

// CreateRequest represents the arguments for project_create.
type CreateRequest struct {
	TemplateID string      `json:"template_id,omitempty"`
	Name       string      `json:"name,omitempty"`
	Set        FieldValues `json:"set,omitempty"`
}

// FetchRequest represents the arguments for project_fetch.
type FetchRequest struct {
	ID             string `json:"id"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// UpdateRequest represents the arguments for project_update.
type UpdateRequest struct {
	ID  string      `json:"id"`
	Set FieldValues `json:"set"`
}

// EstimateRequest represents the arguments for project_estimate.
type EstimateRequest struct {
	ID      string `json:"id"`
	Persist bool   `json:"persist,omitempty"`
}

// IDRequest represents the arguments for tools that take only an id.
type IDRequest struct {
	ID string `json:"id"`
}

// ListRequest represents the arguments for project_list.
type ListRequest struct {
	Limit          int  `json:"limit,omitempty"`
	Offset         int  `json:"offset,omitempty"`
	IncludeDeleted bool `json:"include_deleted,omitempty"`
}

// PurgeRequest represents the arguments for project_purge.
type PurgeRequest struct {
	OlderThanDays *int `json:"older_than_days,omitempty"`
}

// Handler implementations

// HandleCreate handles the project_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Create(ctx, h.db, h.cfg, ops.CreateInput{
		TemplateID: input.TemplateID,
		Name:       input.Name,
		Set:        input.Set.toUpdate(),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the project_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(ctx, h.db, ops.FetchInput{
		ID:             input.ID,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the project_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(ctx, h.db, h.cfg, ops.UpdateInput{
		ID:  input.ID,
		Set: input.Set.toUpdate(),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleEstimate handles the project_estimate tool call.
func (h *Handlers) HandleEstimate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[EstimateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Estimate(ctx, h.db, h.cfg, ops.EstimateInput{
		ID:      input.ID,
		Persist: input.Persist,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleTimeline handles the project_timeline tool call.
func (h *Handlers) HandleTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Timeline(ctx, h.db, h.cfg, ops.TimelineInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the project_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.db, h.cfg, ops.ListInput{
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the project_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.db, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePurge handles the project_purge tool call.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PurgeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Purge(ctx, h.db, ops.PurgeInput{OlderThanDays: input.OlderThanDays})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleTemplateList handles the template_list tool call.
func (h *Handlers) HandleTemplateList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Templates(ctx, h.catalog)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleTemplateFetch handles the template_fetch tool call.
func (h *Handlers) HandleTemplateFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.TemplateFetch(ctx, h.catalog, ops.TemplateFetchInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var pErr *errors.PlanError
	if stderrors.As(err, &pErr) {
		message := pErr.Message
		// Keep context added by wrapping, e.g. "set: INVALID_REQUEST: ..."
		if prefix, ok := strings.CutSuffix(err.Error(), pErr.Error()); ok && prefix != "" && pErr.Code != errors.ErrInternal {
			message = prefix + message
		}

		errorObj := map[string]any{
			"code":    pErr.Code,
			"message": message,
			"status":  pErr.Status,
		}
		if pErr.Code != errors.ErrInternal && pErr.Details != nil {
			errorObj["details"] = pErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
