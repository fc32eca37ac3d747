package video

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	meta    *Metadata
	expires time.Time
}

// CachingProvider memoizes successful metadata lookups for a fixed TTL.
// Lookup failures are never cached.
type CachingProvider struct {
	inner Provider
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewCachingProvider(inner Provider, ttl time.Duration) *CachingProvider {
	return &CachingProvider{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachingProvider) Metadata(ctx context.Context, videoID string) (*Metadata, error) {
	c.mu.RLock()
	entry, ok := c.entries[videoID]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expires) {
		return entry.meta, nil
	}

	meta, err := c.inner.Metadata(ctx, videoID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[videoID] = cacheEntry{meta: meta, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return meta, nil
}

func (c *CachingProvider) Validate(ctx context.Context, rawURL string) (*Metadata, error) {
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}
	return c.Metadata(ctx, videoID)
}
