package api

import (
	"sync"
	"time"

	"github.com/warp/workforce-portal/breaks"
)

// =============================================================================
// PREVIEW CACHE
// =============================================================================
//
// Previews are ephemeral: they live here until applied or expired. Apply
// takes the preview out, so one preview is applied at most once.

type cachedPreview struct {
	preview   *breaks.Preview
	expiresAt time.Time
}

type previewCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cachedPreview
}

func newPreviewCache(ttl time.Duration) *previewCache {
	return &previewCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedPreview),
	}
}

// put stores a preview and returns its expiry.
func (c *previewCache) put(p *breaks.Preview) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.evictLocked(now)
	expires := now.Add(c.ttl)
	c.entries[p.ID] = cachedPreview{preview: p, expiresAt: expires}
	return expires
}

// take removes and returns a live preview.
func (c *previewCache) take(id string) (*breaks.Preview, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	delete(c.entries, id)
	if c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.preview, true
}

func (c *previewCache) evictLocked(now time.Time) {
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
}
