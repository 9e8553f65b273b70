package query

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Status is the lifecycle position of one cached key.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const (
	defaultCacheSize   = 64
	defaultStaleWindow = 5 * time.Minute
)

// FetchFunc produces the value for one key.
type FetchFunc[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	status    Status
	value     V
	hasValue  bool
	err       error
	updatedAt time.Time
}

type Config struct {
	// CacheSize bounds how many keys are retained; least recently used
	// keys are evicted beyond it.
	CacheSize int
	// StaleWindow is how long a success is served without refetching.
	StaleWindow time.Duration
	Retry       RetryPolicy
}

// Client caches fetch results per key. Concurrent fetches of the same key
// collapse into one in-flight call, failures are replayed per the retry
// policy, and a success is served as-is until the stale window elapses.
type Client[V any] struct {
	mu          sync.Mutex
	entries     *lru.Cache[string, *entry[V]]
	group       singleflight.Group
	staleWindow time.Duration
	retry       RetryPolicy
	log         *slog.Logger
	now         func() time.Time
}

func New[V any](cfg Config, log *slog.Logger) (*Client[V], error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.StaleWindow <= 0 {
		cfg.StaleWindow = defaultStaleWindow
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryPolicy
	}
	entries, err := lru.New[string, *entry[V]](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("building query cache: %w", err)
	}
	return &Client[V]{
		entries:     entries,
		staleWindow: cfg.StaleWindow,
		retry:       cfg.Retry,
		log:         log,
		now:         time.Now,
	}, nil
}

// Get reports the cached value and status without triggering any fetch.
func (c *Client[V]) Get(key string) (V, Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Get(key)
	if !ok {
		var zero V
		return zero, StatusIdle
	}
	return e.value, e.status
}

// Err reports the failure recorded for the key, if its last fetch failed.
func (c *Client[V]) Err(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries.Get(key); ok {
		return e.err
	}
	return nil
}

// Ensure returns the cached value when it is still fresh, fetching
// otherwise. This is the read path callers should default to.
func (c *Client[V]) Ensure(ctx context.Context, key string, fn FetchFunc[V]) (V, error) {
	if value, ok := c.fresh(key); ok {
		return value, nil
	}
	return c.Fetch(ctx, key, fn)
}

// Fetch always goes to the source, ignoring the stale window. Concurrent
// calls for the same key share one execution and one result.
func (c *Client[V]) Fetch(ctx context.Context, key string, fn FetchFunc[V]) (V, error) {
	result, err, shared := c.group.Do(key, func() (any, error) {
		c.markLoading(key)
		var value V
		fetchErr := c.retry.execute(ctx, func(ctx context.Context) (err error) {
			value, err = fn(ctx)
			return err
		})
		if fetchErr != nil {
			c.markError(key, fetchErr)
			return nil, fetchErr
		}
		c.store(key, value)
		return value, nil
	})
	if shared {
		c.log.Debug("fetch deduplicated", "key", key)
	}
	if err != nil {
		var zero V
		return zero, err
	}
	return result.(V), nil
}

// Update rewrites the cached value in place and restamps its freshness.
// Keys that never resolved successfully are left alone; the next read
// fetches instead.
func (c *Client[V]) Update(key string, apply func(V) V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Get(key)
	if !ok || !e.hasValue {
		return false
	}
	e.value = apply(e.value)
	e.status = StatusSuccess
	e.err = nil
	e.updatedAt = c.now()
	return true
}

// Set seeds the cache with a value that did not come from the source, e.g.
// a snapshot persisted by an earlier run. The entry lands already stale so
// the next Ensure still refreshes it.
func (c *Client[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(key, &entry[V]{
		status:   StatusSuccess,
		value:    value,
		hasValue: true,
	})
}

// Invalidate expires the key without dropping its value, so readers keep
// seeing the last data while the next Ensure refetches.
func (c *Client[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries.Get(key); ok {
		e.updatedAt = time.Time{}
	}
}

// Remove forgets the key entirely.
func (c *Client[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Remove(key)
}

func (c *Client[V]) fresh(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Get(key)
	if !ok || e.status != StatusSuccess {
		var zero V
		return zero, false
	}
	if c.now().Sub(e.updatedAt) >= c.staleWindow {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Client[V]) markLoading(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Get(key)
	if !ok {
		c.entries.Add(key, &entry[V]{status: StatusLoading})
		return
	}
	e.status = StatusLoading
}

func (c *Client[V]) markError(key string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// The previous value survives an error so readers keep something to show.
	if e, ok := c.entries.Get(key); ok {
		e.status = StatusError
		e.err = err
		return
	}
	c.entries.Add(key, &entry[V]{status: StatusError, err: err})
}

func (c *Client[V]) store(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(key, &entry[V]{
		status:    StatusSuccess,
		value:     value,
		hasValue:  true,
		err:       nil,
		updatedAt: c.now(),
	})
}
