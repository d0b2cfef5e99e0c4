package tools

// AllTools contains all tool specifications for the tool directory server.
// Descriptions follow a structured format for LLM tool selection:
// - USE WHEN: Natural language triggers
// - PARAMETERS: Key arguments with defaults
// - RETURNS: What the tool returns
var AllTools = []ToolSpec{
	{
		Name:     "directory_list_categories",
		Method:   "ListCategories",
		Title:    "List Categories",
		Category: "browse",
		Description: `List every category in the tool directory.

USE WHEN: User asks "what kinds of tools are there", "which categories exist", or needs a category id before filtering.

RETURNS: The "all" pseudo-category followed by each category, with id, display name and tool count.`,
		ReadOnly:   true,
		Idempotent: true,
	},
	{
		Name:     "directory_list_tools",
		Method:   "ListTools",
		Title:    "List Tools",
		Category: "browse",
		Description: `List tools in the directory, optionally filtered by category.

USE WHEN: User asks "show me marketing tools", "what tools help with funding", or wants the full list.

PARAMETERS:
- category: Category id from directory_list_categories (default "all")

RETURNS: Matching tools with name, description, link and category label, plus the heading and count text shown on the page.`,
		ReadOnly:   true,
		Idempotent: true,
	},
	{
		Name:     "directory_catalog_status",
		Method:   "CatalogStatus",
		Title:    "Catalog Status",
		Category: "status",
		Description: `Report where the directory data came from.

USE WHEN: User asks whether the directory is showing live data or the built-in fallback set.

RETURNS: Source ("remote" or "fallback") and category and tool counts.`,
		ReadOnly:   true,
		Idempotent: true,
	},
}
