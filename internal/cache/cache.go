// Package cache holds aggregated record views for a fixed time-to-live.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Loader builds the value for a key when the cached one is missing or stale.
type Loader func(ctx context.Context) (any, error)

type entry struct {
	data      any
	fetchedAt time.Time
}

// Cache is a keyed TTL cache. Validity is judged against the injected clock;
// the underlying go-cache store only reclaims memory of long expired keys.
type Cache struct {
	items *gocache.Cache
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache whose entries stay valid for ttl after they were fetched.
func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Keep entries around for twice the TTL so the clock, not the janitor,
	// decides staleness.
	c.items = gocache.New(2*ttl, 10*ttl)
	return c
}

// Get returns the cached value for key while it is fresh. Otherwise it calls
// load, stores the result stamped with the current time and returns it.
// Concurrent misses on the same key share a single load, which keeps ctx's
// values but not its cancellation. Failed loads are not stored.
func (c *Cache) Get(ctx context.Context, key string, load Loader) (any, error) {
	if data, ok := c.fresh(key); ok {
		return data, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if data, ok := c.fresh(key); ok {
			return data, nil
		}
		// The load is shared, so one caller's cancellation must not fail the rest.
		data, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.items.Set(key, entry{data: data, fetchedAt: c.now()}, gocache.DefaultExpiration)
		return data, nil
	})
	return v, err
}

// Invalidate drops key so the next Get reloads it.
func (c *Cache) Invalidate(key string) {
	c.items.Delete(key)
}

// FetchedAt reports when key was last loaded.
func (c *Cache) FetchedAt(key string) (time.Time, bool) {
	raw, ok := c.items.Get(key)
	if !ok {
		return time.Time{}, false
	}
	return raw.(entry).fetchedAt, true
}

func (c *Cache) fresh(key string) (any, bool) {
	raw, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	e := raw.(entry)
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.data, true
}

// Fetch is a typed wrapper around Get.
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
