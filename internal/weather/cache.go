package weather

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/urbanroots/internal/clock"
	"github.com/sandeepkv93/urbanroots/internal/model"
)

type cacheEntry struct {
	snap    model.WeatherSnapshot
	fetched time.Time
}

// Cached remembers the last snapshot per location for ttl.
type Cached struct {
	provider Provider
	clock    clock.Clock
	ttl      time.Duration

	mu     sync.RWMutex
	cache  map[string]cacheEntry
	hits   int
	misses int
}

func NewCached(p Provider, c clock.Clock, ttl time.Duration) *Cached {
	if c == nil {
		c = clock.System{}
	}
	return &Cached{
		provider: p,
		clock:    c,
		ttl:      ttl,
		cache:    make(map[string]cacheEntry),
	}
}

func (c *Cached) Name() string {
	return c.provider.Name() + " [cached]"
}

func (c *Cached) Current(ctx context.Context, location string) (model.WeatherSnapshot, error) {
	key := strings.ToLower(strings.TrimSpace(location))

	c.mu.RLock()
	entry, found := c.cache[key]
	c.mu.RUnlock()

	if found && c.clock.Now().Sub(entry.fetched) < c.ttl {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return entry.snap, nil
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()

	snap, err := c.provider.Current(ctx, location)
	if err != nil {
		return model.WeatherSnapshot{}, err
	}

	c.mu.Lock()
	c.cache[key] = cacheEntry{snap: snap, fetched: c.clock.Now()}
	c.mu.Unlock()
	return snap, nil
}

// Stats reports cache hits and misses so far.
func (c *Cached) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Invalidate drops every cached snapshot.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cacheEntry)
}

var _ Provider = (*Cached)(nil)
