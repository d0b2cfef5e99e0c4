// Package render draws a directory view as a complete HTML page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/olgasafonova/tool-directory-server/internal/directory"
)

//go:embed templates/page.html
var templateFS embed.FS

// DefaultTitle is the page title used when none is configured.
const DefaultTitle = "Tools for Entrepreneurs"

// Renderer writes pages from the embedded template. It is safe for
// concurrent use.
type Renderer struct {
	tmpl  *template.Template
	title string
}

// Option configures the Renderer
type Option func(*Renderer)

// WithTitle sets the page title
func WithTitle(title string) Option {
	return func(r *Renderer) {
		if title != "" {
			r.title = title
		}
	}
}

type pageData struct {
	Title string
	View  directory.View
}

// NewRenderer parses the page template.
func NewRenderer(opts ...Option) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	r := &Renderer{tmpl: tmpl, title: DefaultTitle}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Render writes the whole page for view to w.
func (r *Renderer) Render(w io.Writer, view directory.View) error {
	if err := r.tmpl.ExecuteTemplate(w, "page.html", pageData{Title: r.title, View: view}); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// RenderBytes renders view into a buffer so the result can be cached.
func (r *Renderer) RenderBytes(view directory.View) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
