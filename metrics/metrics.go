// Package metrics provides Prometheus metrics for the tool directory server.
// It tracks page renders, catalog loads, cache performance, and HTTP traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const (
	Namespace = "tool_directory"
)

var (
	// RequestsTotal counts total MCP tool calls by tool name and status
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "mcp_requests_total",
		Help:      "Total number of MCP tool calls",
	}, []string{"tool", "status"})

	// RequestDuration measures MCP tool latency distribution
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "mcp_request_duration_seconds",
		Help:      "MCP tool latency distribution by tool",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"tool"})

	// RequestInFlight tracks currently executing MCP tool calls
	RequestInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "mcp_requests_in_flight",
		Help:      "Number of MCP tool calls currently being processed",
	}, []string{"tool"})

	// CatalogLoads counts catalog loads by source (remote or fallback)
	CatalogLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "catalog_loads_total",
		Help:      "Catalog loads by data source",
	}, []string{"source"})

	// CatalogLoadDuration measures the time to fetch both data files
	CatalogLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "catalog_load_duration_seconds",
		Help:      "Time spent loading categories and tools",
		Buckets:   prometheus.DefBuckets,
	})

	// CatalogEntries tracks the number of loaded categories and tools
	CatalogEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "catalog_entries",
		Help:      "Number of loaded catalog entries by kind",
	}, []string{"kind"})

	// FetchErrors counts data fetch failures by resource
	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "fetch_errors_total",
		Help:      "Data fetch failures by resource",
	}, []string{"resource"})

	// PageRenders counts rendered pages by selected category
	PageRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "page_renders_total",
		Help:      "Pages rendered by category selection and status",
	}, []string{"category", "status"})

	// VisibleTools observes how many tools a filtered view shows
	VisibleTools = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "visible_tools",
		Help:      "Number of tools shown per rendered view",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})

	// CacheHits counts cache hits
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "cache_hits_total",
		Help:      "Total cache hit count",
	})

	// CacheMisses counts cache misses
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "cache_misses_total",
		Help:      "Total cache miss count",
	})

	// CacheSize tracks current cache entry count
	CacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "cache_entries",
		Help:      "Current number of cache entries",
	})

	// CacheEvictions counts cache evictions
	CacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "cache_evictions_total",
		Help:      "Total cache eviction count",
	})

	// DedupShared counts renders served from another in-flight render
	DedupShared = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "dedup_shared_total",
		Help:      "Renders that reused an identical in-flight render",
	})

	// RateLimitRejections counts requests rejected due to rate limiting
	RateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "rate_limit_rejections_total",
		Help:      "Requests rejected due to rate limiting",
	})

	// PanicsRecovered counts recovered panics
	PanicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "panics_recovered_total",
		Help:      "Number of panics recovered in handlers",
	}, []string{"handler"})

	// HTTPRequestsTotal counts HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method and status",
	}, []string{"method", "status"})

	// HTTPRequestDuration measures HTTP request latency
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency distribution",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path"})
)

// RecordRequest records a completed MCP tool call with its duration and status
func RecordRequest(tool string, duration float64, success bool) {
	RequestsTotal.WithLabelValues(tool, status(success)).Inc()
	RequestDuration.WithLabelValues(tool).Observe(duration)
}

// RecordCatalogLoad records a finished catalog load
func RecordCatalogLoad(source string, duration float64, categories, tools int) {
	CatalogLoads.WithLabelValues(source).Inc()
	CatalogLoadDuration.Observe(duration)
	CatalogEntries.WithLabelValues("categories").Set(float64(categories))
	CatalogEntries.WithLabelValues("tools").Set(float64(tools))
}

// RecordRender records a page render for a category selection
func RecordRender(category string, shown int, success bool) {
	PageRenders.WithLabelValues(category, status(success)).Inc()
	if success {
		VisibleTools.Observe(float64(shown))
	}
}

// RecordCacheAccess records a cache hit or miss
func RecordCacheAccess(hit bool) {
	if hit {
		CacheHits.Inc()
	} else {
		CacheMisses.Inc()
	}
}

// SetCacheSize updates the current cache size gauge
func SetCacheSize(size int64) {
	CacheSize.Set(float64(size))
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
