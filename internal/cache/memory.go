package cache

import (
	"context"
	"sync"
	"time"

	"github.com/HelicopterHelicopter/AssetHound/internal/domain"
)

type entry struct {
	outcome   domain.ValidationOutcome
	timestamp time.Time
}

// MemoryCache is the default in-process ResultCache backend. A TTL of
// zero (or negative) means every entry is already expired.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, url string) (domain.ValidationOutcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[url]
	if !ok {
		return domain.ValidationOutcome{}, false
	}
	if c.expired(e.timestamp) {
		delete(c.entries, url)
		return domain.ValidationOutcome{}, false
	}
	out := e.outcome
	out.URL = url
	return out, true
}

func (c *MemoryCache) Set(_ context.Context, url string, outcome domain.ValidationOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = entry{outcome: outcome, timestamp: c.now()}
}

func (c *MemoryCache) Cleanup(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for url, e := range c.entries {
		if c.expired(e.timestamp) {
			delete(c.entries, url)
		}
	}
}

func (c *MemoryCache) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len reports the current number of entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) expired(timestamp time.Time) bool {
	if c.ttl <= 0 {
		return true
	}
	return c.now().Sub(timestamp) > c.ttl
}
