package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/olgasafonova/tool-directory-server/internal/catalog"
	"github.com/olgasafonova/tool-directory-server/internal/directory"
	"github.com/olgasafonova/tool-directory-server/internal/infra"
	"github.com/olgasafonova/tool-directory-server/internal/render"
	"github.com/olgasafonova/tool-directory-server/metrics"
	"github.com/olgasafonova/tool-directory-server/tools"
	"github.com/olgasafonova/tool-directory-server/tracing"
)

const mcpInstructions = `Tool Directory Server lists tools for entrepreneurs grouped by category.

Available tools:
- directory_list_categories: List categories with tool counts
- directory_list_tools: List tools, optionally filtered by category id
- directory_catalog_status: Report whether live data or the built-in fallback is in use`

// ServerConfig tunes the HTTP surface.
type ServerConfig struct {
	RateLimit    int // requests per minute per IP, 0 disables
	MaxBodySize  int64
	CacheTTL     time.Duration // 0 disables page caching
	CacheEntries int
}

// Server serves the rendered directory, its data and the MCP endpoint.
type Server struct {
	dir      *directory.Directory
	renderer *render.Renderer
	logger   *slog.Logger
	config   ServerConfig

	pages    *infra.Cache[[]byte]
	dedup    *infra.RequestDeduplicator[[]byte]
	mcp      *mcp.Server
	security *SecurityMiddleware
}

// NewServer wires a Server around a loaded directory.
func NewServer(dir *directory.Directory, renderer *render.Renderer, logger *slog.Logger, config ServerConfig) *Server {
	s := &Server{
		dir:      dir,
		renderer: renderer,
		logger:   logger,
		config:   config,
		pages:    infra.NewCache[[]byte](config.CacheEntries),
		dedup:    infra.NewRequestDeduplicator[[]byte](),
		mcp:      newMCPServer(dir, logger),
	}
	s.security = NewSecurityMiddleware(s.routes(), logger, SecurityConfig{
		RateLimit:   config.RateLimit,
		MaxBodySize: config.MaxBodySize,
	})
	return s
}

func newMCPServer(dir *directory.Directory, logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Logger:       logger,
		Instructions: mcpInstructions,
	})
	tools.NewHandlerRegistry(dir, logger).RegisterAll(server)
	return server
}

// Close stops background cache and rate limiter maintenance.
func (s *Server) Close() {
	s.pages.Close()
	s.security.Close()
}

// Handler returns the full middleware-wrapped route tree.
func (s *Server) Handler() http.Handler {
	return s.security
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /categories.json", s.handleCategories)
	mux.HandleFunc("GET /tools.json", s.handleTools)
	mux.HandleFunc("GET /api/tools", s.handleAPITools)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)
	mux.Handle("/mcp", mcpHandler)
	return mux
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	selected := r.URL.Query().Get("category")
	if selected == "" {
		selected = directory.All
	}

	page, err := s.page(r.Context(), selected)
	if err != nil {
		s.logger.Error("Failed to render page", "category", selected, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// page returns the rendered page for a selection, from cache when possible.
// Concurrent misses for the same selection share a single render.
func (s *Server) page(ctx context.Context, selected string) ([]byte, error) {
	if s.config.CacheTTL > 0 {
		if page, ok := s.pages.Get(selected); ok {
			return page, nil
		}
	}

	page, shared, err := s.dedup.Do(ctx, selected, func() ([]byte, error) {
		_, span := tracing.StartSpan(ctx, "directory.render")
		defer span.End()

		view := s.dir.Select(selected)
		tracing.AddSelectionAttributes(span, view.Selected, view.Shown)

		page, err := s.renderer.RenderBytes(view)
		metrics.RecordRender(s.renderLabel(view.Selected), view.Shown, err == nil)
		if err != nil {
			tracing.RecordError(span, err)
			return nil, err
		}

		if s.config.CacheTTL > 0 {
			s.pages.Set(selected, page, s.config.CacheTTL)
		}
		return page, nil
	})
	if shared {
		s.logger.Debug("Shared in-flight render", "category", selected)
	}
	return page, err
}

// renderLabel bounds metric label cardinality to known selections.
func (s *Server) renderLabel(selected string) string {
	if selected == directory.All {
		return selected
	}
	for _, c := range s.dir.Catalog().Categories {
		if c.ID == selected {
			return selected
		}
	}
	return "unknown"
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories := s.dir.Catalog().Categories
	if categories == nil {
		categories = []catalog.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	list := s.dir.Catalog().Tools
	if list == nil {
		list = []catalog.Tool{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAPITools(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.StartSpan(r.Context(), "directory.api.tools")
	defer span.End()

	result, err := s.dir.ListToolsMCP(ctx, directory.ListToolsArgs{
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		tracing.RecordError(span, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.Int("directory.tools.shown", result.Shown))
	writeJSON(w, http.StatusOK, result)
}

type healthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Source     string `json:"source"`
	Categories int    `json:"categories"`
	Tools      int    `json:"tools"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cat := s.dir.Catalog()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Version:    ServerVersion,
		Source:     string(cat.Source),
		Categories: len(cat.Categories),
		Tools:      len(cat.Tools),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
