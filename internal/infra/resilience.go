package infra

import (
	"context"
	"errors"
	"sync"

	"github.com/olgasafonova/tool-directory-server/metrics"
)

// ErrRequestPanicked is returned to waiters whose shared request panicked.
var ErrRequestPanicked = errors.New("in-flight request panicked")

// RequestDeduplicator coalesces identical in-flight requests. When several
// goroutines ask for the same key at once, fn runs once and every waiter
// receives the same result.
type RequestDeduplicator[V any] struct {
	mu       sync.Mutex
	inflight map[string]*inflightRequest[V]
}

type inflightRequest[V any] struct {
	done   chan struct{}
	result V
	err    error
	count  int
}

// NewRequestDeduplicator creates a new request deduplicator
func NewRequestDeduplicator[V any]() *RequestDeduplicator[V] {
	return &RequestDeduplicator[V]{
		inflight: make(map[string]*inflightRequest[V]),
	}
}

// Do executes fn only if no identical request (by key) is in flight.
// Returns the result, whether it was shared from another request, and any error.
func (d *RequestDeduplicator[V]) Do(ctx context.Context, key string, fn func() (V, error)) (V, bool, error) {
	d.mu.Lock()

	if req, ok := d.inflight[key]; ok {
		req.count++
		d.mu.Unlock()

		select {
		case <-req.done:
			metrics.DedupShared.Inc()
			return req.result, true, req.err
		case <-ctx.Done():
			var zero V
			return zero, false, ctx.Err()
		}
	}

	req := &inflightRequest[V]{
		done:  make(chan struct{}),
		count: 1,
	}
	d.inflight[key] = req
	d.mu.Unlock()

	// Waiters must be released and the key freed even if fn panics.
	panicked := true
	defer func() {
		if panicked {
			req.err = ErrRequestPanicked
		}
		close(req.done)

		d.mu.Lock()
		delete(d.inflight, key)
		d.mu.Unlock()
	}()

	req.result, req.err = fn()
	panicked = false

	return req.result, false, req.err
}

// Stats returns the current number of in-flight requests
func (d *RequestDeduplicator[V]) Stats() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inflight)
}
