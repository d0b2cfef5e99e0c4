// Package directory turns a loaded catalog and a category selection into the
// view the page shows: which tile is active, which cards are visible, and the
// heading and count text above the tool grid.
package directory

import (
	"fmt"

	"github.com/olgasafonova/tool-directory-server/internal/catalog"
)

// All selects every tool.
const All = "all"

const (
	allIcon      = "ri-more-line"
	categoryIcon = "ri-lightbulb-line"
)

// Tile is one entry in the category grid.
type Tile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

// Card is one entry in the tool grid.
type Card struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Label       string `json:"label"`
	Visible     bool   `json:"visible"`
}

// View is everything needed to draw the page for one selection.
type View struct {
	Selected  string `json:"selected"`
	Tiles     []Tile `json:"tiles"`
	Cards     []Card `json:"cards"`
	Heading   string `json:"heading"`
	CountText string `json:"count_text"`
	Shown     int    `json:"shown"`
	Total     int    `json:"total"`
}

// VisibleCards returns only the cards the selection shows.
func (v View) VisibleCards() []Card {
	out := make([]Card, 0, v.Shown)
	for _, c := range v.Cards {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// Directory answers selections against one catalog.
type Directory struct {
	catalog *catalog.Catalog
}

// New creates a Directory over cat.
func New(cat *catalog.Catalog) *Directory {
	return &Directory{catalog: cat}
}

// Catalog returns the underlying catalog.
func (d *Directory) Catalog() *catalog.Catalog {
	return d.catalog
}

// Select builds the view for category. An empty category means All. An id
// that matches no tile leaves every tile inactive and shows no tools.
func (d *Directory) Select(category string) View {
	if category == "" {
		category = All
	}

	v := View{
		Selected: category,
		Tiles:    make([]Tile, 0, len(d.catalog.Categories)+1),
		Cards:    make([]Card, 0, len(d.catalog.Tools)),
		Total:    len(d.catalog.Tools),
	}

	v.Tiles = append(v.Tiles, Tile{ID: All, Name: "All", Icon: allIcon, Active: category == All})
	for _, c := range d.catalog.Categories {
		v.Tiles = append(v.Tiles, Tile{ID: c.ID, Name: c.Name, Icon: categoryIcon, Active: c.ID == category})
	}
	// Only the first matching tile is active, as a click marks a single element.
	seen := false
	for i := range v.Tiles {
		if v.Tiles[i].Active {
			if seen {
				v.Tiles[i].Active = false
			}
			seen = true
		}
	}

	for _, t := range d.catalog.Tools {
		visible := category == All || t.Category == category
		if visible {
			v.Shown++
		}
		v.Cards = append(v.Cards, Card{
			Name:        t.Name,
			Description: t.Description,
			URL:         t.URL,
			Category:    t.Category,
			Label:       d.catalog.Label(t.Category),
			Visible:     visible,
		})
	}

	v.Heading = Heading(d.catalog, category)
	v.CountText = CountText(v.Shown)
	return v
}

// Heading is the title above the tool grid.
func Heading(cat *catalog.Catalog, category string) string {
	if category == "" || category == All {
		return "Tools"
	}
	return cat.Label(category) + " Tools"
}

// CountText describes how many tools are shown.
func CountText(shown int) string {
	suffix := "s"
	if shown == 1 {
		suffix = ""
	}
	return fmt.Sprintf("Showing %d tool%s for entrepreneurs", shown, suffix)
}
