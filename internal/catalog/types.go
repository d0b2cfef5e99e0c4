// Package catalog holds the directory data model and loads it from JSON
// data files, substituting built-in fallback data when loading fails.
package catalog

import "encoding/json"

// Category is a named grouping tools can belong to.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tool is a third-party product entry with descriptive metadata and a link.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    string `json:"category"`
}

// UnmarshalJSON accepts the legacy "categoryId" key when "category" is empty.
func (t *Tool) UnmarshalJSON(data []byte) error {
	type plain Tool
	var raw struct {
		plain
		CategoryID string `json:"categoryId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Tool(raw.plain)
	if t.Category == "" {
		t.Category = raw.CategoryID
	}
	return nil
}

// Source says where a catalog's data came from.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Catalog is the loaded pair of lists. It is never mutated after loading.
type Catalog struct {
	Categories []Category `json:"categories"`
	Tools      []Tool     `json:"tools"`
	Source     Source     `json:"source"`
}

// Label resolves a category id to its display name, or returns the id
// itself when no category matches.
func (c *Catalog) Label(id string) string {
	for _, cat := range c.Categories {
		if cat.ID == id {
			if cat.Name == "" {
				return id
			}
			return cat.Name
		}
	}
	return id
}

// CountByCategory returns how many tools reference each category id.
func (c *Catalog) CountByCategory() map[string]int {
	counts := make(map[string]int, len(c.Categories))
	for _, t := range c.Tools {
		counts[t.Category]++
	}
	return counts
}
