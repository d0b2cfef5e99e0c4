package infra

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRequestDeduplicator(t *testing.T) {
	d := NewRequestDeduplicator[string]()
	if d == nil {
		t.Fatal("NewRequestDeduplicator returned nil")
	}
	if d.inflight == nil {
		t.Error("inflight map is nil")
	}
}

func TestRequestDeduplicator_Do_SingleRequest(t *testing.T) {
	d := NewRequestDeduplicator[string]()

	called := 0
	result, shared, err := d.Do(context.Background(), "all", func() (string, error) {
		called++
		return "page", nil
	})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if shared {
		t.Error("expected shared=false for single request")
	}
	if result != "page" {
		t.Errorf("expected result='page', got %v", result)
	}
	if called != 1 {
		t.Errorf("expected function to be called once, got %d", called)
	}
}

func TestRequestDeduplicator_Do_ConcurrentRequests(t *testing.T) {
	d := NewRequestDeduplicator[[]byte]()

	var callCount int32
	var wg sync.WaitGroup

	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, _, err := d.Do(context.Background(), "marketing", func() ([]byte, error) {
				atomic.AddInt32(&callCount, 1)
				time.Sleep(50 * time.Millisecond)
				return []byte("rendered"), nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if string(result) != "rendered" {
				t.Errorf("expected 'rendered', got %q", result)
			}
		}()
	}

	wg.Wait()

	if atomic.LoadInt32(&callCount) != 1 {
		t.Errorf("expected function to be called once, got %d", callCount)
	}
}

func TestRequestDeduplicator_Do_DifferentKeys(t *testing.T) {
	d := NewRequestDeduplicator[string]()

	var callCount int32
	var wg sync.WaitGroup

	for _, key := range []string{"all", "branding", "sales"} {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			_, _, _ = d.Do(context.Background(), k, func() (string, error) {
				atomic.AddInt32(&callCount, 1)
				time.Sleep(10 * time.Millisecond)
				return k, nil
			})
		}(key)
	}

	wg.Wait()

	if atomic.LoadInt32(&callCount) != 3 {
		t.Errorf("expected 3 calls for 3 distinct keys, got %d", callCount)
	}
}

func TestRequestDeduplicator_Do_ErrorPropagation(t *testing.T) {
	d := NewRequestDeduplicator[string]()
	expected := errors.New("render failed")

	_, _, err := d.Do(context.Background(), "all", func() (string, error) {
		return "", expected
	})

	if !errors.Is(err, expected) {
		t.Errorf("expected %v, got %v", expected, err)
	}
}

func TestRequestDeduplicator_Do_ContextCancellation(t *testing.T) {
	d := NewRequestDeduplicator[string]()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_, _, _ = d.Do(context.Background(), "slow", func() (string, error) {
			close(started)
			<-release
			return "done", nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, shared, err := d.Do(ctx, "slow", func() (string, error) {
		t.Error("waiter should not run fn")
		return "", nil
	})
	close(release)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if shared {
		t.Error("canceled waiter should not report shared")
	}
}

func TestRequestDeduplicator_Stats(t *testing.T) {
	d := NewRequestDeduplicator[int]()

	if d.Stats() != 0 {
		t.Errorf("expected 0 in-flight, got %d", d.Stats())
	}

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = d.Do(context.Background(), "k", func() (int, error) {
			close(started)
			<-release
			return 1, nil
		})
	}()
	<-started

	if d.Stats() != 1 {
		t.Errorf("expected 1 in-flight, got %d", d.Stats())
	}

	close(release)
	<-done

	if d.Stats() != 0 {
		t.Errorf("expected 0 in-flight after completion, got %d", d.Stats())
	}
}

func TestRequestDeduplicator_Do_PanicReleasesKey(t *testing.T) {
	d := NewRequestDeduplicator[string]()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate to the caller")
			}
		}()
		_, _, _ = d.Do(context.Background(), "branding", func() (string, error) {
			panic("render failed")
		})
	}()

	if n := d.Stats(); n != 0 {
		t.Fatalf("in-flight after panic = %d, want 0", n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	result, shared, err := d.Do(ctx, "branding", func() (string, error) {
		return "page", nil
	})
	if err != nil {
		t.Fatalf("Do after panic failed: %v", err)
	}
	if shared || result != "page" {
		t.Errorf("got result=%q shared=%v, want fresh page", result, shared)
	}
}

func TestRequestDeduplicator_Do_PanicReleasesWaiters(t *testing.T) {
	d := NewRequestDeduplicator[string]()
	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		defer func() { _ = recover() }()
		_, _, _ = d.Do(context.Background(), "sales", func() (string, error) {
			close(started)
			<-release
			panic("render failed")
		})
	}()
	<-started

	errCh := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, _, err := d.Do(ctx, "sales", func() (string, error) {
			return "page", nil
		})
		errCh <- err
	}()

	// Let the waiter attach before the leader panics.
	for {
		d.mu.Lock()
		count := d.inflight["sales"].count
		d.mu.Unlock()
		if count > 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	close(release)

	if err := <-errCh; !errors.Is(err, ErrRequestPanicked) {
		t.Errorf("waiter error = %v, want ErrRequestPanicked", err)
	}
}
