package folio

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/folio/content"
)

// ContentCache holds the snapshot of the last page mount. A snapshot with
// a fallback section expires sooner so a recovered resource shows up
// without waiting for the full TTL.
type ContentCache struct {
	mu      sync.RWMutex
	snap    content.Snapshot
	mounted bool
	fetched time.Time
	ttl     time.Duration
	retry   time.Duration
	newPage func() *content.Page
}

// NewContentCache creates a cache that mounts pages built by newPage.
func NewContentCache(newPage func() *content.Page, ttl, retry time.Duration) *ContentCache {
	if retry <= 0 || retry > ttl {
		retry = ttl
	}
	return &ContentCache{
		newPage: newPage,
		ttl:     ttl,
		retry:   retry,
	}
}

func (c *ContentCache) valid() bool {
	if !c.mounted {
		return false
	}
	ttl := c.ttl
	if c.snap.AnyFallback() {
		ttl = c.retry
	}
	return time.Since(c.fetched) < ttl
}

// Invalidate clears the cache so the next read mounts a fresh page.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.mounted = false
	c.mu.Unlock()
}

// Snapshot returns the cached snapshot, mounting a new page when the
// cached one has expired. It tries a read lock first; only takes a write
// lock if a mount is needed.
//
// The mount keeps ctx values but not its cancellation: a client that
// disconnects must not leave a fallback snapshot cached for everyone.
func (c *ContentCache) Snapshot(ctx context.Context) content.Snapshot {
	c.mu.RLock()
	if c.valid() {
		snap := c.snap
		c.mu.RUnlock()
		return snap
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.snap
	}
	c.snap = c.newPage().Mount(context.WithoutCancel(ctx))
	c.fetched = time.Now()
	c.mounted = true
	return c.snap
}
