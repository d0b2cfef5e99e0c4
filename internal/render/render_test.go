package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/olgasafonova/tool-directory-server/internal/catalog"
	"github.com/olgasafonova/tool-directory-server/internal/directory"
)

func fixtureCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Categories: []catalog.Category{
			{ID: "planning", Name: "Business Planning"},
			{ID: "branding", Name: "Branding & Design"},
		},
		Tools: []catalog.Tool{
			{Name: "IdeaBuddy", Description: "Plan your business", URL: "https://ideabuddy.com/", Category: "planning"},
			{Name: "Canva", Description: "Design graphics", URL: "https://www.canva.com/", Category: "branding"},
			{Name: "Orphan", Description: "Lost tool", URL: "https://example.com/", Category: "mystery"},
		},
	}
}

func renderString(t *testing.T, view directory.View) string {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, view); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func TestRender_TilesAndCards(t *testing.T) {
	html := renderString(t, directory.New(fixtureCatalog()).Select(directory.All))

	if got := strings.Count(html, `class="category-item`); got != 3 {
		t.Errorf("category tiles = %d, want 3 (All + 2)", got)
	}
	if got := strings.Count(html, `class="tool-card`); got != 3 {
		t.Errorf("tool cards = %d, want 3", got)
	}
	if !strings.Contains(html, `data-category="all"`) {
		t.Error("missing All tile")
	}
	if got := strings.Count(html, `category-item active`); got != 1 {
		t.Errorf("active tiles = %d, want 1", got)
	}
	if strings.Contains(html, "display:none") {
		t.Error("no card should be hidden when all is selected")
	}
	for _, want := range []string{
		`id="categoriesGrid"`,
		`id="toolsGrid"`,
		`<h2 id="toolsHeading" class="text-2xl font-bold mb-2">Tools</h2>`,
		"Showing 3 tools for entrepreneurs",
		`href="https://ideabuddy.com/"`,
		`target="_blank"`,
		"ri-more-line",
		"ri-lightbulb-line",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestRender_FilteredSelection(t *testing.T) {
	html := renderString(t, directory.New(fixtureCatalog()).Select("branding"))

	if got := strings.Count(html, `style="display:none"`); got != 2 {
		t.Errorf("hidden cards = %d, want 2", got)
	}
	if !strings.Contains(html, `category-item active p-4 border border-gray-200 rounded-lg text-center cursor-pointer" data-category="branding"`) {
		t.Error("branding tile should be active")
	}
	if !strings.Contains(html, "Branding &amp; Design Tools") {
		t.Error("heading should name the selected category")
	}
	if !strings.Contains(html, "Showing 1 tool for entrepreneurs") {
		t.Error("count should use the singular form")
	}
}

func TestRender_UnknownCategoryLabel(t *testing.T) {
	html := renderString(t, directory.New(fixtureCatalog()).Select(directory.All))

	if !strings.Contains(html, `rounded-full">mystery</span>`) {
		t.Error("tool with unknown category should show the raw id as its label")
	}
}

func TestRender_FallbackCatalog(t *testing.T) {
	html := renderString(t, directory.New(catalog.Fallback()).Select(directory.All))

	if got := strings.Count(html, `class="category-item`); got != 10 {
		t.Errorf("category tiles = %d, want 10", got)
	}
	if got := strings.Count(html, `class="tool-card`); got != 3 {
		t.Errorf("tool cards = %d, want 3", got)
	}
}

func TestRender_EscapesContent(t *testing.T) {
	cat := &catalog.Catalog{
		Categories: []catalog.Category{{ID: "x", Name: "<b>bold</b>"}},
		Tools: []catalog.Tool{
			{Name: "<script>alert(1)</script>", URL: "javascript:alert(1)", Category: "x"},
		},
	}
	html := renderString(t, directory.New(cat).Select(directory.All))

	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("tool name was not escaped")
	}
	if strings.Contains(html, `href="javascript:alert(1)"`) {
		t.Error("unsafe URL was not sanitized")
	}
	if strings.Contains(html, "<b>bold</b>") {
		t.Error("category name was not escaped")
	}
}

func TestRender_Title(t *testing.T) {
	r, err := NewRenderer(WithTitle("Founder Toolbox"))
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	page, err := r.RenderBytes(directory.New(fixtureCatalog()).Select(""))
	if err != nil {
		t.Fatalf("RenderBytes failed: %v", err)
	}
	if !bytes.Contains(page, []byte("<title>Founder Toolbox</title>")) {
		t.Error("custom title not rendered")
	}

	r, _ = NewRenderer(WithTitle(""))
	page, _ = r.RenderBytes(directory.New(fixtureCatalog()).Select(""))
	if !bytes.Contains(page, []byte("<title>"+DefaultTitle+"</title>")) {
		t.Error("empty title should keep the default")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRender_WriteError(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	if err := r.Render(failingWriter{}, directory.New(fixtureCatalog()).Select("")); err == nil {
		t.Error("expected error from failing writer")
	}
}
