package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions

var createToolDef = mcp.NewTool("project_create",
	mcp.WithDescription("Start a new building project. Blank by default, or seeded with a template's default width and length."),
	mcp.WithString("template_id", mcp.Description("Template to seed from (see template_list)")),
	mcp.WithString("name", mcp.Description("Project name")),
	mcp.WithObject("set", mcp.Description("Initial field values, e.g. {\"height\": \"10\", \"roof_material\": \"metal\"}")),
)

var fetchToolDef = mcp.NewTool("project_fetch",
	mcp.WithDescription("Get a project with its derived area and estimated cost (\"TBD\" until computed)."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Project ID")),
	mcp.WithBoolean("include_deleted", mcp.Description("Also return soft-deleted projects")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var updateToolDef = mcp.NewTool("project_update",
	mcp.WithDescription("Merge field values into a project. Editable fields: name, width, length, height, foundation_type (concrete-slab, pier-foundation, crawl-space), wall_material (2x6-wood, 2x8-wood, log, steel), roof_material (metal, asphalt, cedar). Numbers that don't parse become 0; unknown selections are cleared; area and estimated cost are derived and can't be set."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Project ID")),
	mcp.WithObject("set", mcp.Description("Field name to value, e.g. {\"width\": \"30\", \"length\": \"20\"}. Unknown fields are ignored")),
)

var estimateToolDef = mcp.NewTool("project_estimate",
	mcp.WithDescription("Itemized cost estimate: Foundation, Framing, Roofing, Siding, Windows/Doors, Interior, each with a running total. Amounts are in cents."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Project ID")),
	mcp.WithBoolean("persist", mcp.Description("Store the total as the project's estimated cost")),
)

var timelineToolDef = mcp.NewTool("project_timeline",
	mcp.WithDescription("Construction phases in build order with status, duration in days and skill level."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Project ID")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var listToolDef = mcp.NewTool("project_list",
	mcp.WithDescription("List projects, most recently updated first."),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted projects")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var deleteToolDef = mcp.NewTool("project_delete",
	mcp.WithDescription("Soft-delete a project. It can still be fetched with include_deleted until purged."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Project ID")),
	mcp.WithDestructiveHintAnnotation(true),
)

var purgeToolDef = mcp.NewTool("project_purge",
	mcp.WithDescription("Permanently remove soft-deleted projects."),
	mcp.WithNumber("older_than_days", mcp.Description("Only purge projects deleted more than N days ago")),
	mcp.WithDestructiveHintAnnotation(true),
)

var templateListToolDef = mcp.NewTool("template_list",
	mcp.WithDescription("List the project templates with their default dimensions."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var templateFetchToolDef = mcp.NewTool("template_fetch",
	mcp.WithDescription("Get one template, including its markdown description."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Template ID")),
	mcp.WithReadOnlyHintAnnotation(true),
)
