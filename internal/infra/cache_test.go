package infra

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestNewCache(t *testing.T) {
	c := NewCache[string](100)
	defer c.Close()

	if c.maxEntries != 100 {
		t.Errorf("maxEntries = %d, want 100", c.maxEntries)
	}
	if c.Size() != 0 {
		t.Errorf("new cache size = %d, want 0", c.Size())
	}
}

func TestNewCache_DefaultMaxEntries(t *testing.T) {
	tests := []struct {
		name  string
		input int
	}{
		{"zero", 0},
		{"negative", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache[string](tt.input)
			defer c.Close()
			if c.maxEntries != DefaultMaxCacheEntries {
				t.Errorf("maxEntries = %d, want %d", c.maxEntries, DefaultMaxCacheEntries)
			}
		})
	}
}

func TestCache_SetAndGet(t *testing.T) {
	c := NewCache[[]byte](10)
	defer c.Close()

	c.Set("all", []byte("<html>"), time.Minute)

	got, ok := c.Get("all")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(got) != "<html>" {
		t.Errorf("Get = %q, want <html>", got)
	}
}

func TestCache_Get_NotFound(t *testing.T) {
	c := NewCache[string](10)
	defer c.Close()

	got, ok := c.Get("missing")
	if ok {
		t.Error("expected miss for unknown key")
	}
	if got != "" {
		t.Errorf("expected zero value, got %q", got)
	}
}

func TestCache_Get_Expired(t *testing.T) {
	c := NewCache[string](10)
	defer c.Close()

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set("k", "v", time.Second)

	c.now = func() time.Time { return now.Add(2 * time.Second) }
	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
	if c.Size() != 0 {
		t.Errorf("expired entry should be removed, size = %d", c.Size())
	}
}

func TestCache_Set_Update(t *testing.T) {
	c := NewCache[string](10)
	defer c.Close()

	c.Set("k", "v1", time.Minute)
	c.Set("k", "v2", time.Minute)

	if c.Size() != 1 {
		t.Errorf("size = %d, want 1", c.Size())
	}
	if got, _ := c.Get("k"); got != "v2" {
		t.Errorf("Get = %q, want v2", got)
	}
}

func TestCache_DeleteAndPurge(t *testing.T) {
	c := NewCache[string](10)
	defer c.Close()

	c.Set("a", "1", time.Minute)
	c.Set("b", "2", time.Minute)

	c.Delete("a")
	c.Delete("does-not-exist")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted key should miss")
	}
	if c.Size() != 1 {
		t.Errorf("size = %d, want 1", c.Size())
	}

	c.Purge()
	if c.Size() != 0 {
		t.Errorf("size after purge = %d, want 0", c.Size())
	}
}

func TestCache_LRUEviction(t *testing.T) {
	c := NewCache[int](3)
	defer c.Close()

	base := time.Now()
	tick := 0
	c.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	}

	c.Set("a", 1, time.Hour)
	c.Set("b", 2, time.Hour)
	c.Set("c", 3, time.Hour)

	// Touch "a" so "b" becomes the least recently used
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}

	c.Set("d", 4, time.Hour)

	if c.Size() != 3 {
		t.Errorf("size = %d, want 3", c.Size())
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
}

func TestCache_Cleanup(t *testing.T) {
	c := NewCache[string](10)
	defer c.Close()

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set("short", "x", time.Second)
	c.Set("long", "y", time.Hour)

	c.now = func() time.Time { return now.Add(time.Minute) }
	c.cleanup()

	if c.Size() != 1 {
		t.Errorf("size after cleanup = %d, want 1", c.Size())
	}
}

func TestCache_Close(t *testing.T) {
	c := NewCache[string](10)

	c.Close()
	c.Close()
}

func TestCache_ConcurrencySafety(t *testing.T) {
	c := NewCache[int](50)
	defer c.Close()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 50 {
				key := fmt.Sprintf("k%d", (n*j)%80)
				c.Set(key, j, time.Minute)
				c.Get(key)
				if j%10 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Size() > 50 {
		t.Errorf("size %d exceeds max entries", c.Size())
	}
}
