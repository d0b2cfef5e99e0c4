package directory

// ListCategoriesArgs contains parameters for listing categories
type ListCategoriesArgs struct{}

// CategorySummary is a category with the number of tools in it
type CategorySummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ToolCount int    `json:"tool_count"`
}

// ListCategoriesResult is the result of listing categories. The first entry
// is always the "all" pseudo-category.
type ListCategoriesResult struct {
	Categories []CategorySummary `json:"categories"`
	Count      int               `json:"count"`
}

// ListToolsArgs contains parameters for listing tools
type ListToolsArgs struct {
	Category string `json:"category,omitempty" jsonschema:"Category id to filter by. Omit or pass 'all' for every tool."`
}

// ToolSummary is a tool with its resolved category label
type ToolSummary struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	URL           string `json:"url"`
	Category      string `json:"category"`
	CategoryLabel string `json:"category_label"`
}

// ListToolsResult is the result of listing tools for a selection
type ListToolsResult struct {
	Category  string        `json:"category"`
	Heading   string        `json:"heading"`
	CountText string        `json:"count_text"`
	Tools     []ToolSummary `json:"tools"`
	Shown     int           `json:"shown"`
	Total     int           `json:"total"`
}

// CatalogStatusArgs contains parameters for the catalog status tool
type CatalogStatusArgs struct{}

// CatalogStatusResult reports where the catalog came from and its size
type CatalogStatusResult struct {
	Source     string `json:"source"`
	Categories int    `json:"categories"`
	Tools      int    `json:"tools"`
	Fallback   bool   `json:"fallback"`
}
