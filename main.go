// Tool Directory Server - renders a categorized directory of tools as a web page
// Serves the page over HTTP, exposes the catalog as JSON and via MCP tools
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/olgasafonova/tool-directory-server/internal/base"
	"github.com/olgasafonova/tool-directory-server/internal/catalog"
	"github.com/olgasafonova/tool-directory-server/internal/directory"
	direrrors "github.com/olgasafonova/tool-directory-server/internal/errors"
	"github.com/olgasafonova/tool-directory-server/internal/render"
	"github.com/olgasafonova/tool-directory-server/internal/ui"
	"github.com/olgasafonova/tool-directory-server/tracing"
)

const (
	ServerName    = "tool-directory-server"
	ServerVersion = "1.0.0"
)

// recoverPanic logs a recovered panic instead of crashing
func recoverPanic(logger *slog.Logger, operation string) {
	if r := recover(); r != nil {
		logger.Error("Panic recovered",
			"operation", operation,
			"panic", r,
			"stack", string(debug.Stack()))
	}
}

// CLI is the command line of the server. Every flag can also be set from
// the environment.
type CLI struct {
	Globals

	Serve   ServeCmd   `cmd:"" default:"withargs" help:"Serve the directory over HTTP."`
	Render  RenderCmd  `cmd:"" help:"Render one page of the directory to a file or stdout."`
	List    ListCmd    `cmd:"" help:"Print the directory to the terminal."`
	MCP     MCPCmd     `cmd:"" name:"mcp" help:"Serve the MCP tools over stdio."`
	Version VersionCmd `cmd:"" help:"Print the server version."`
}

// Globals holds settings shared by every command.
type Globals struct {
	Data         string        `help:"Location of categories.json and tools.json: a directory, a file next to them, or an http(s) URL." default:"data/" env:"DIRECTORY_DATA"`
	FetchTimeout time.Duration `help:"Time allowed for loading both data files." default:"10s" env:"DIRECTORY_FETCH_TIMEOUT"`
	Title        string        `help:"Page title." env:"DIRECTORY_TITLE"`
	LogLevel     string        `help:"Log level." enum:"debug,info,warn,error" default:"info" env:"DIRECTORY_LOG_LEVEL"`
	LogFormat    string        `help:"Log format." enum:"text,json" default:"text" env:"DIRECTORY_LOG_FORMAT"`
}

// ServeCmd runs the HTTP server.
type ServeCmd struct {
	Listen          string        `help:"Address to listen on." default:":8080" env:"DIRECTORY_LISTEN"`
	RateLimit       int           `help:"Requests per minute per client IP (0 disables)." default:"120" env:"DIRECTORY_RATE_LIMIT"`
	MaxBodySize     int64         `help:"Maximum request body size in bytes." default:"1048576" env:"DIRECTORY_MAX_BODY_SIZE"`
	CacheTTL        time.Duration `help:"How long rendered pages are cached." default:"5m" env:"DIRECTORY_CACHE_TTL"`
	CacheEntries    int           `help:"Maximum number of cached pages." default:"256" env:"DIRECTORY_CACHE_ENTRIES"`
	ShutdownTimeout time.Duration `help:"Grace period for in-flight requests on shutdown." default:"10s" env:"DIRECTORY_SHUTDOWN_TIMEOUT"`
}

// RenderCmd writes a single static page.
type RenderCmd struct {
	Category string `help:"Category id to select." default:"all"`
	Out      string `help:"Output file (default stdout)." short:"o" type:"path"`
}

// ListCmd prints one selection as text.
type ListCmd struct {
	Category string `help:"Category id to select." default:"all"`
	NoColor  bool   `help:"Disable colored output. A non-empty NO_COLOR does the same."`
}

// MCPCmd runs the MCP server on stdio for local clients.
type MCPCmd struct{}

// VersionCmd prints the version.
type VersionCmd struct{}

// Validate checks server settings before the command runs
func (c *ServeCmd) Validate() error {
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return direrrors.NewValidationError("listen", c.Listen, "must be host:port")
	}
	if c.RateLimit < 0 {
		return direrrors.NewValidationError("rate_limit", fmt.Sprint(c.RateLimit), "must not be negative")
	}
	if c.MaxBodySize <= 0 {
		return direrrors.NewValidationError("max_body_size", fmt.Sprint(c.MaxBodySize), "must be positive")
	}
	if c.CacheTTL < 0 {
		return direrrors.NewValidationError("cache_ttl", c.CacheTTL.String(), "must not be negative")
	}
	return nil
}

// Validate checks shared settings before any command runs
func (g *Globals) Validate() error {
	if strings.TrimSpace(g.Data) == "" {
		return direrrors.NewValidationError("data", "", "is required")
	}
	if g.FetchTimeout <= 0 {
		return direrrors.NewValidationError("fetch_timeout", g.FetchTimeout.String(), "must be positive")
	}
	return nil
}

func (c *ServeCmd) Run(g *Globals) error {
	logger := newLogger(os.Stderr, g.LogLevel, g.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := setupTracing(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	dir := g.loadDirectory(ctx, logger)

	renderer, err := render.NewRenderer(render.WithTitle(g.Title))
	if err != nil {
		return err
	}

	app := NewServer(dir, renderer, logger, ServerConfig{
		RateLimit:    c.RateLimit,
		MaxBodySize:  c.MaxBodySize,
		CacheTTL:     c.CacheTTL,
		CacheEntries: c.CacheEntries,
	})
	defer app.Close()

	httpServer := &http.Server{
		Addr:              c.Listen,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer recoverPanic(logger, "http server")
		logger.Info("Starting tool directory server",
			"name", ServerName,
			"version", ServerVersion,
			"listen", c.Listen,
			"data", g.Data,
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "grace", c.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func (c *RenderCmd) Run(g *Globals) error {
	logger := newLogger(os.Stderr, g.LogLevel, g.LogFormat)
	ctx := context.Background()

	shutdownTracing, err := setupTracing(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	dir := g.loadDirectory(ctx, logger)
	renderer, err := render.NewRenderer(render.WithTitle(g.Title))
	if err != nil {
		return err
	}

	return c.write(dir, renderer, logger)
}

func (c *RenderCmd) write(dir *directory.Directory, renderer *render.Renderer, logger *slog.Logger) error {
	var w io.Writer = os.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	view := dir.Select(c.Category)
	if err := renderer.Render(w, view); err != nil {
		return err
	}
	logger.Info("Rendered page",
		"category", view.Selected,
		"shown", view.Shown,
		"total", view.Total,
		"out", c.Out)
	return nil
}

func (c *ListCmd) Run(g *Globals) error {
	logger := newLogger(os.Stderr, g.LogLevel, g.LogFormat)
	dir := g.loadDirectory(context.Background(), logger)
	return ui.NewLister(ui.Options{NoColor: c.NoColor}).Render(dir.Select(c.Category))
}

func (c *MCPCmd) Run(g *Globals) error {
	logger := newLogger(os.Stderr, g.LogLevel, g.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := setupTracing(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	server := newMCPServer(g.loadDirectory(ctx, logger), logger)

	logger.Info("Starting tool directory MCP server",
		"name", ServerName,
		"version", ServerVersion,
		"data", g.Data,
	)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (c *VersionCmd) Run() error {
	fmt.Printf("%s %s\n", ServerName, ServerVersion)
	return nil
}

// loadDirectory loads the catalog within the fetch timeout. Load failures
// fall back to built-in data, so this always returns a usable directory.
func (g *Globals) loadDirectory(ctx context.Context, logger *slog.Logger) *directory.Directory {
	ctx, cancel := context.WithTimeout(ctx, g.FetchTimeout)
	defer cancel()

	client := base.NewClient(
		base.WithLogger(logger),
		base.WithTimeout(g.FetchTimeout),
		base.WithUserAgent(ServerName+"/"+ServerVersion),
	)
	loader := catalog.NewLoader(g.Data,
		catalog.WithClient(client),
		catalog.WithLogger(logger),
	)
	return directory.New(loader.Load(ctx))
}

func setupTracing(ctx context.Context) (func(context.Context) error, error) {
	cfg := tracing.DefaultConfig()
	cfg.ServiceName = ServerName
	cfg.ServiceVersion = ServerVersion
	return tracing.Setup(ctx, cfg)
}

// newLogger builds the process logger. Logs go to w so stdout stays free
// for rendered output.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func main() {
	var cli CLI
	parser := kong.Must(&cli,
		kong.Name("tool-directory"),
		kong.Description("Serve a categorized directory of tools."),
		kong.UsageOnError(),
	)
	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
