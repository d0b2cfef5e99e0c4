package directory

import (
	"context"

	"github.com/olgasafonova/tool-directory-server/internal/catalog"
)

// MCP tool wrapper methods.
// These wrap directory lookups with Args/Result types for MCP integration.

// ListCategoriesMCP is the MCP wrapper listing every category tile
func (d *Directory) ListCategoriesMCP(ctx context.Context, args ListCategoriesArgs) (ListCategoriesResult, error) {
	counts := d.catalog.CountByCategory()

	out := make([]CategorySummary, 0, len(d.catalog.Categories)+1)
	out = append(out, CategorySummary{ID: All, Name: "All", ToolCount: len(d.catalog.Tools)})
	for _, c := range d.catalog.Categories {
		out = append(out, CategorySummary{
			ID:        c.ID,
			Name:      c.Name,
			ToolCount: counts[c.ID],
		})
	}

	return ListCategoriesResult{
		Categories: out,
		Count:      len(out),
	}, nil
}

// ListToolsMCP is the MCP wrapper for Select, returning only visible tools
func (d *Directory) ListToolsMCP(ctx context.Context, args ListToolsArgs) (ListToolsResult, error) {
	view := d.Select(args.Category)

	tools := make([]ToolSummary, 0, view.Shown)
	for _, c := range view.VisibleCards() {
		tools = append(tools, ToolSummary{
			Name:          c.Name,
			Description:   c.Description,
			URL:           c.URL,
			Category:      c.Category,
			CategoryLabel: c.Label,
		})
	}

	return ListToolsResult{
		Category:  view.Selected,
		Heading:   view.Heading,
		CountText: view.CountText,
		Tools:     tools,
		Shown:     view.Shown,
		Total:     view.Total,
	}, nil
}

// CatalogStatusMCP is the MCP wrapper reporting the catalog source
func (d *Directory) CatalogStatusMCP(ctx context.Context, args CatalogStatusArgs) (CatalogStatusResult, error) {
	return CatalogStatusResult{
		Source:     string(d.catalog.Source),
		Categories: len(d.catalog.Categories),
		Tools:      len(d.catalog.Tools),
		Fallback:   d.catalog.Source == catalog.SourceFallback,
	}, nil
}
