package mcp

import (
	"database/sql"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/cabinplan/internal/config"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"project", "template"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// tools lists every tool in registration order.
var tools = []toolEntry{
	{createToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreate }},
	{fetchToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch }},
	{updateToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleUpdate }},
	{estimateToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleEstimate }},
	{timelineToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleTimeline }},
	{listToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleList }},
	{deleteToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete }},
	{purgeToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandlePurge }},
	{templateListToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleTemplateList }},
	{templateFetchToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleTemplateFetch }},
}

// toolRegistry indexes tools by name.
var toolRegistry = func() map[string]toolEntry {
	m := make(map[string]toolEntry, len(tools))
	for _, t := range tools {
		m[t.def.Name] = t
	}
	return m
}()

// AllToolNames returns a sorted list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if !slices.Contains(KnownTypes, name) {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "project_fetch" → "project").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	names := make([]string, 0)
	for _, entry := range tools {
		if slices.Contains(types, GetTypeForTool(entry.def.Name)) {
			names = append(names, entry.def.Name)
		}
	}
	return names
}

// NewServer creates a new MCP server with cabinplan tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"cabinplan",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg)

	// Build set of disabled tools: first expand types, then add individual tools
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for _, entry := range tools {
		if disabled[entry.def.Name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, version string) error {
	return server.ServeStdio(NewServer(db, cfg, version))
}
