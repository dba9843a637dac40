package mcp

import "github.com/mark3labs/mcp-go/mcp"

var addToolDef = mcp.NewTool("contact_add",
	mcp.WithDescription("Add a contact with optional telephone, email and social media details."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Contact name (case-sensitive identity key)")),
	mcp.WithString("telephone", mcp.Description("Telephone as <country_code>-<city_code>-<number>")),
	mcp.WithString("email", mcp.Description("Email address")),
	mcp.WithString("social_media", mcp.Description("Social media handle as <platform>:<handle>")),
)

var listToolDef = mcp.NewTool("contact_list",
	mcp.WithDescription("List every contact in insertion order."),
)

var searchToolDef = mcp.NewTool("contact_search",
	mcp.WithDescription("Find the first contact whose name matches exactly."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exact, case-sensitive name")),
)

var editToolDef = mcp.NewTool("contact_edit",
	mcp.WithDescription("Replace a contact's name and details. Details not given are removed."),
	mcp.WithString("old_name", mcp.Required(), mcp.Description("Current contact name")),
	mcp.WithString("name", mcp.Required(), mcp.Description("New contact name")),
	mcp.WithString("telephone", mcp.Description("Telephone as <country_code>-<city_code>-<number>")),
	mcp.WithString("email", mcp.Description("Email address")),
	mcp.WithString("social_media", mcp.Description("Social media handle as <platform>:<handle>")),
)

var deleteToolDef = mcp.NewTool("contact_delete",
	mcp.WithDescription("Delete a contact by exact name."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exact, case-sensitive name")),
)

var exportToolDef = mcp.NewTool("contact_export",
	mcp.WithDescription("Export all contacts to a JSONL file."),
	mcp.WithString("path", mcp.Description("Destination .jsonl path, directly in ~/.rolo/exports or an allowed_paths directory (default: ~/.rolo/exports/rolo-export-<id>.jsonl)")),
)

var importToolDef = mcp.NewTool("contact_import",
	mcp.WithDescription("Import contacts from a JSONL export file."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source .jsonl path, directly in ~/.rolo/exports or an allowed_paths directory")),
	mcp.WithString("mode", mcp.Description("Collision handling: error (default), skip, or replace")),
)
