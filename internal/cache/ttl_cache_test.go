package cache

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache[K comparable, V any](ttl time.Duration) (*TTLCache[K, V], *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[K, V](ttl)
	c.now = clock.Now
	return c, clock
}

func TestNewIsExpired(t *testing.T) {
	c := New[string, int](time.Minute)
	if !c.IsExpired() {
		t.Error("new cache should be expired")
	}
	if _, ok := c.Get("esv"); ok {
		t.Error("Get() on new cache should miss")
	}
	if c.GetAll() != nil {
		t.Error("GetAll() on new cache should be nil")
	}
}

func TestSetGetExpire(t *testing.T) {
	c, clock := newTestCache[string, int](time.Minute)
	c.Set("esv", 12)

	if v, ok := c.Get("esv"); !ok || v != 12 {
		t.Errorf("Get(esv) = %d, %v, want 12, true", v, ok)
	}
	if _, ok := c.Get("blb"); ok {
		t.Error("Get(blb) should miss")
	}

	clock.Advance(59 * time.Second)
	if c.IsExpired() {
		t.Error("cache expired before its TTL")
	}
	clock.Advance(time.Second)
	if !c.IsExpired() {
		t.Error("cache should expire at its TTL")
	}
	if _, ok := c.Get("esv"); ok {
		t.Error("Get() after expiry should miss")
	}
}

func TestSetAfterExpiryDropsStaleEntries(t *testing.T) {
	c, clock := newTestCache[string, int](time.Minute)
	c.Set("esv", 1)
	clock.Advance(2 * time.Minute)
	c.Set("blb", 2)

	if _, ok := c.Get("esv"); ok {
		t.Error("stale entry came back after a fresh Set")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestSetAllGetAll(t *testing.T) {
	c, _ := newTestCache[string, int](time.Minute)
	c.SetAll(map[string]int{"esv": 1, "logos": 2})

	all := c.GetAll()
	if len(all) != 2 || all["logos"] != 2 {
		t.Errorf("GetAll() = %v", all)
	}
	all["esv"] = 100
	if v, _ := c.Get("esv"); v != 1 {
		t.Error("GetAll() returned the cache's own map")
	}
}

func TestGetOrLoad(t *testing.T) {
	c, clock := newTestCache[string, string](time.Minute)
	calls := 0
	load := func() (string, error) {
		calls++
		return "loaded", nil
	}

	for range 3 {
		v, err := c.GetOrLoad("plans", load)
		if err != nil || v != "loaded" {
			t.Fatalf("GetOrLoad() = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}

	clock.Advance(time.Minute)
	c.GetOrLoad("plans", load)
	if calls != 2 {
		t.Errorf("load called %d times after expiry, want 2", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrLoad("other", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrLoad() error = %v, want boom", err)
	}
	if _, ok := c.Get("other"); ok {
		t.Error("failed load should not be cached")
	}
}

func TestGetOrLoadDisabled(t *testing.T) {
	c, _ := newTestCache[string, int](0)
	calls := 0
	for range 2 {
		c.GetOrLoad("k", func() (int, error) { calls++; return calls, nil })
	}
	if calls != 2 {
		t.Errorf("load called %d times with caching disabled, want 2", calls)
	}
}

func TestInvalidate(t *testing.T) {
	c, _ := newTestCache[string, int](time.Minute)
	c.Set("esv", 1)
	c.Invalidate()

	if !c.IsExpired() || c.Len() != 0 {
		t.Errorf("after Invalidate: expired=%v len=%d", c.IsExpired(), c.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int, int](time.Minute)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Set(n, n)
			c.Get(n)
			c.GetOrLoad(n+100, func() (int, error) { return n, nil })
			c.GetAll()
		}(i)
	}
	wg.Wait()
	if c.Len() == 0 {
		t.Error("cache is empty after concurrent writes")
	}
}
