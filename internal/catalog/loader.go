package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olgasafonova/tool-directory-server/internal/base"
	direrrors "github.com/olgasafonova/tool-directory-server/internal/errors"
	"github.com/olgasafonova/tool-directory-server/metrics"
	"github.com/olgasafonova/tool-directory-server/tracing"
)

// Data file names, resolved relative to the loader location.
const (
	CategoriesFile = "categories.json"
	ToolsFile      = "tools.json"
)

// Loader fetches the categories and tools data files.
type Loader struct {
	location string
	client   *base.Client
	logger   *slog.Logger
}

// LoaderOption configures the Loader
type LoaderOption func(*Loader)

// WithClient sets the HTTP client used for http(s) locations
func WithClient(c *base.Client) LoaderOption {
	return func(l *Loader) {
		l.client = c
	}
}

// WithLogger sets a custom logger
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader for data files next to location. Location is
// an http(s) URL, a file:// URL, or a filesystem path. URLs resolve the way
// a relative reference does, so a directory URL needs a trailing slash.
func NewLoader(location string, opts ...LoaderOption) *Loader {
	l := &Loader{
		location: location,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.client == nil {
		l.client = base.NewClient(base.WithLogger(l.logger))
	}
	return l
}

// Location returns the configured data location
func (l *Loader) Location() string {
	return l.location
}

// Load fetches both data files in parallel. If either fails, both lists
// are replaced by the fallback data set. Load never returns nil.
func (l *Loader) Load(ctx context.Context) *Catalog {
	ctx, span := tracing.StartSpan(ctx, "catalog.load")
	defer span.End()

	start := time.Now()
	cat, err := l.fetchAll(ctx)
	if err != nil {
		l.logger.Error("Failed to load data, using fallback",
			"location", l.location,
			"error", err)
		tracing.RecordError(span, err)
		cat = Fallback()
	} else {
		l.logger.Info("Fetched catalog from data files", "location", l.location)
	}

	l.logger.Info("Loaded catalog",
		"source", cat.Source,
		"categories", len(cat.Categories),
		"tools", len(cat.Tools))
	metrics.RecordCatalogLoad(string(cat.Source), time.Since(start).Seconds(), len(cat.Categories), len(cat.Tools))
	tracing.AddCatalogAttributes(span, string(cat.Source), len(cat.Categories), len(cat.Tools))
	return cat
}

func (l *Loader) fetchAll(ctx context.Context) (*Catalog, error) {
	var (
		categories []Category
		tools      []Tool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return l.fetchJSON(gctx, CategoriesFile, &categories)
	})
	g.Go(func() error {
		return l.fetchJSON(gctx, ToolsFile, &tools)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Catalog{
		Categories: categories,
		Tools:      tools,
		Source:     SourceRemote,
	}, nil
}

func (l *Loader) fetchJSON(ctx context.Context, name string, v any) error {
	target, remote, err := resolve(l.location, name)
	if err != nil {
		metrics.FetchErrors.WithLabelValues(name).Inc()
		return direrrors.NewLoadError(name, l.location, err)
	}

	var data []byte
	if remote {
		data, err = l.client.Get(ctx, target)
	} else {
		data, err = os.ReadFile(target)
	}
	if err == nil {
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		metrics.FetchErrors.WithLabelValues(name).Inc()
		return direrrors.NewLoadError(name, target, err)
	}
	return nil
}

// resolve returns the location of name relative to location and whether it is
// fetched over HTTP.
func resolve(location, name string) (string, bool, error) {
	if location == "" {
		return name, false, nil
	}

	u, err := url.Parse(location)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return u.ResolveReference(&url.URL{Path: name}).String(), true, nil
		case "file":
			location = u.Path
		case "":
		default:
			if len(u.Scheme) > 1 {
				return "", false, fmt.Errorf("unsupported scheme %q", u.Scheme)
			}
			// single letter: a Windows drive path
		}
	}

	if info, statErr := os.Stat(location); statErr == nil && !info.IsDir() {
		return filepath.Join(filepath.Dir(location), name), false, nil
	}
	return filepath.Join(location, name), false, nil
}
