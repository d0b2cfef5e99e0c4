package catalog

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCatalog_Label(t *testing.T) {
	cat := &Catalog{
		Categories: []Category{
			{ID: "planning", Name: "Business Planning"},
			{ID: "unnamed", Name: ""},
			{ID: "planning", Name: "Duplicate Planning"},
		},
	}

	tests := []struct {
		name string
		id   string
		want string
	}{
		{"known id", "planning", "Business Planning"},
		{"unknown id falls back to raw id", "mystery", "mystery"},
		{"empty name falls back to id", "unnamed", "unnamed"},
		{"empty id", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cat.Label(tt.id); got != tt.want {
				t.Errorf("Label(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestCatalog_CountByCategory(t *testing.T) {
	cat := &Catalog{
		Tools: []Tool{
			{Name: "A", Category: "x"},
			{Name: "B", Category: "x"},
			{Name: "C", Category: "y"},
		},
	}

	want := map[string]int{"x": 2, "y": 1}
	if diff := cmp.Diff(want, cat.CountByCategory()); diff != "" {
		t.Errorf("CountByCategory mismatch (-want +got):\n%s", diff)
	}
}

func TestTool_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Tool
	}{
		{
			name:  "category key",
			input: `{"name":"Canva","description":"Design","url":"https://www.canva.com/","category":"branding"}`,
			want:  Tool{Name: "Canva", Description: "Design", URL: "https://www.canva.com/", Category: "branding"},
		},
		{
			name:  "legacy categoryId key",
			input: `{"name":"Buffer","url":"https://buffer.com/","categoryId":"marketing"}`,
			want:  Tool{Name: "Buffer", URL: "https://buffer.com/", Category: "marketing"},
		},
		{
			name:  "category wins over categoryId",
			input: `{"name":"X","category":"sales","categoryId":"funding"}`,
			want:  Tool{Name: "X", Category: "sales"},
		},
		{
			name:  "no category",
			input: `{"name":"Y"}`,
			want:  Tool{Name: "Y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Tool
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tool mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTool_UnmarshalJSON_Invalid(t *testing.T) {
	var tools []Tool
	if err := json.Unmarshal([]byte(`[{"name": 42}]`), &tools); err == nil {
		t.Error("expected error for wrong field type")
	}
}

func TestFallback(t *testing.T) {
	cat := Fallback()

	if cat.Source != SourceFallback {
		t.Errorf("Source = %q, want %q", cat.Source, SourceFallback)
	}
	if len(cat.Categories) != 9 {
		t.Errorf("fallback categories = %d, want 9", len(cat.Categories))
	}
	if len(cat.Tools) != 3 {
		t.Errorf("fallback tools = %d, want 3", len(cat.Tools))
	}

	wantIDs := []string{"ideation", "planning", "branding", "development", "marketing", "sales", "funding", "operations", "analytics"}
	var gotIDs []string
	for _, c := range cat.Categories {
		gotIDs = append(gotIDs, c.ID)
	}
	if diff := cmp.Diff(wantIDs, gotIDs); diff != "" {
		t.Errorf("category ids mismatch (-want +got):\n%s", diff)
	}

	for _, tool := range cat.Tools {
		if cat.Label(tool.Category) == tool.Category {
			t.Errorf("fallback tool %q references unknown category %q", tool.Name, tool.Category)
		}
	}
}

func TestFallback_ReturnsFreshCopy(t *testing.T) {
	a := Fallback()
	a.Tools[0].Name = "changed"
	a.Categories = a.Categories[:1]

	b := Fallback()
	if b.Tools[0].Name != "IdeaBuddy" {
		t.Errorf("fallback tools were shared between calls: %q", b.Tools[0].Name)
	}
	if len(b.Categories) != 9 {
		t.Errorf("fallback categories were shared between calls: %d", len(b.Categories))
	}
}
