// Package cache provides a small time-to-live cache with an explicit
// get-or-fetch contract and an injectable clock.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Clock abstracts time so expiry can be tested.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Observer receives one outcome per lookup: "hit", "miss", "stale" or "error".
type Observer interface {
	ObserveCache(cache, outcome string)
}

// sweepThreshold is the entry count above which expired entries are dropped on store.
const sweepThreshold = 512

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TTL caches values per key for a caller-supplied lifetime.
// Concurrent misses on the same key may both fetch; the last store wins.
type TTL[K comparable, V any] struct {
	name       string
	clock      Clock
	serveStale bool
	observer   Observer
	logger     *zap.Logger

	mu      sync.Mutex
	entries map[K]entry[V]
}

// Option configures a TTL cache.
type Option func(*settings)

type settings struct {
	clock      Clock
	serveStale bool
	observer   Observer
	logger     *zap.Logger
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option { return func(s *settings) { s.clock = c } }

// WithServeStale makes a failed refresh return the expired value instead of the error.
func WithServeStale(enabled bool) Option { return func(s *settings) { s.serveStale = enabled } }

// WithObserver reports lookup outcomes, typically to metrics.
func WithObserver(o Observer) Option { return func(s *settings) { s.observer = o } }

// WithLogger sets the logger used for stale-serve warnings.
func WithLogger(l *zap.Logger) Option { return func(s *settings) { s.logger = l } }

// New creates an empty cache identified by name in logs and metrics.
func New[K comparable, V any](name string, opts ...Option) *TTL[K, V] {
	s := settings{clock: SystemClock, logger: zap.NewNop()}
	for _, o := range opts {
		o(&s)
	}
	return &TTL[K, V]{
		name:       name,
		clock:      s.clock,
		serveStale: s.serveStale,
		observer:   s.observer,
		logger:     s.logger,
		entries:    make(map[K]entry[V]),
	}
}

// GetOrFetch returns the cached value for key when it is younger than ttl,
// otherwise calls fetch and caches its result. Errors are never cached.
func (c *TTL[K, V]) GetOrFetch(ctx context.Context, key K, ttl time.Duration, fetch func(context.Context) (V, error)) (V, error) {
	now := c.clock.Now()

	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()

	if ok && now.Sub(e.storedAt) < ttl {
		c.observe("hit")
		return e.value, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		if ok && c.serveStale {
			c.observe("stale")
			c.logger.Warn("refresh failed, serving stale entry",
				zap.String("cache", c.name),
				zap.Duration("age", now.Sub(e.storedAt)),
				zap.Error(err),
			)
			return e.value, nil
		}
		c.observe("error")
		var zero V
		return zero, err
	}

	c.observe("miss")
	c.store(key, v, ttl)
	return v, nil
}

// Put stores v under key as of now.
func (c *TTL[K, V]) Put(key K, v V) {
	c.store(key, v, 0)
}

// Invalidate drops the entry for key.
func (c *TTL[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of entries, expired ones included.
func (c *TTL[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *TTL[K, V]) store(key K, v V, ttl time.Duration) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: v, storedAt: now}

	if ttl <= 0 || c.serveStale || len(c.entries) <= sweepThreshold {
		return
	}
	for k, e := range c.entries {
		if now.Sub(e.storedAt) >= ttl {
			delete(c.entries, k)
		}
	}
}

func (c *TTL[K, V]) observe(outcome string) {
	if c.observer != nil {
		c.observer.ObserveCache(c.name, outcome)
	}
}
