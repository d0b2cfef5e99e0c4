package main

import (
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/olgasafonova/tool-directory-server/metrics"
)

const requestIDHeader = "X-Request-ID"

// RateLimiter is a per-IP token bucket limiter. Each IP may make rate
// requests per interval, with up to rate requests in a burst.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	interval time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing n requests per interval per IP
func NewRateLimiter(n int, interval time.Duration) *RateLimiter {
	if n < 1 {
		n = 1
	}
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     n,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow reports whether a request from ip may proceed
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{
			limiter: rate.NewLimiter(rate.Every(rl.interval/time.Duration(rl.rate)), rl.rate),
		}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	rl.mu.Unlock()

	return v.limiter.Allow()
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
}

func (rl *RateLimiter) cleanupLoop() {
	every := rl.interval
	if every < time.Minute {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(3 * every)
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup forgets visitors idle for longer than idle
func (rl *RateLimiter) cleanup(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-idle)
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

// SecurityConfig configures SecurityMiddleware. A zero RateLimit disables
// rate limiting; a zero MaxBodySize leaves bodies unbounded.
type SecurityConfig struct {
	RateLimit   int // requests per minute per IP
	MaxBodySize int64
}

// SecurityMiddleware applies rate limiting, body limits, security headers,
// request IDs, HTTP metrics and panic recovery to every request.
type SecurityMiddleware struct {
	next    http.Handler
	logger  *slog.Logger
	config  SecurityConfig
	limiter *RateLimiter
}

// NewSecurityMiddleware wraps next with the configured protections
func NewSecurityMiddleware(next http.Handler, logger *slog.Logger, config SecurityConfig) *SecurityMiddleware {
	m := &SecurityMiddleware{
		next:   next,
		logger: logger,
		config: config,
	}
	if config.RateLimit > 0 {
		m.limiter = NewRateLimiter(config.RateLimit, time.Minute)
	}
	return m
}

// Close releases the rate limiter
func (m *SecurityMiddleware) Close() {
	if m.limiter != nil {
		m.limiter.Close()
	}
}

func (m *SecurityMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	defer func() {
		if p := recover(); p != nil {
			metrics.PanicsRecovered.WithLabelValues("http").Inc()
			m.logger.Error("Panic recovered",
				"operation", r.Method+" "+r.URL.Path,
				"panic", p,
				"stack", string(debug.Stack()))
			if !rec.wroteHeader {
				http.Error(rec, "internal server error", http.StatusInternalServerError)
			}
		}
		m.observe(r, rec.status, time.Since(start))
	}()

	requestID := r.Header.Get(requestIDHeader)
	if _, err := uuid.Parse(requestID); err != nil {
		requestID = uuid.NewString()
	}

	h := rec.Header()
	h.Set(requestIDHeader, requestID)
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

	ip := clientIP(r)
	if m.limiter != nil && !m.limiter.Allow(ip) {
		metrics.RateLimitRejections.Inc()
		m.logger.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path, "request_id", requestID)
		h.Set("Retry-After", "60")
		http.Error(rec, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	if m.config.MaxBodySize > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(rec, r.Body, m.config.MaxBodySize)
	}

	m.next.ServeHTTP(rec, r)

	m.logger.Debug("Request served",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"request_id", requestID)
}

func (m *SecurityMiddleware) observe(r *http.Request, status int, d time.Duration) {
	// Pattern is set by ServeMux on match and keeps path labels bounded.
	path := r.Pattern
	if path == "" {
		path = "unmatched"
	}
	metrics.HTTPRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(d.Seconds())
}

// clientIP extracts the remote host. Forwarding headers are ignored since
// they are client controlled.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

// Flush supports streaming responses on the MCP endpoint.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
