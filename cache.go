package cardnews

import (
	"context"
	"sync"
	"time"

	"github.com/sejongkim-ctrl/figma-to-instagram/figma"
)

// FrameCache is an in-memory cache of the Figma file's frames and
// their date groups with TTL. Figma file reads are slow (the whole
// document comes back), so handlers read through this cache.
type FrameCache struct {
	mu      sync.RWMutex
	frames  []figma.Frame
	groups  []FrameGroup
	fetched time.Time
	ttl     time.Duration
	client  *figma.Client
}

// NewFrameCache creates a FrameCache backed by the given client.
func NewFrameCache(client *figma.Client, ttl time.Duration) *FrameCache {
	return &FrameCache{client: client, ttl: ttl}
}

func (c *FrameCache) valid() bool {
	return c.frames != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh fetch.
func (c *FrameCache) Invalidate() {
	c.mu.Lock()
	c.frames = nil
	c.groups = nil
	c.mu.Unlock()
}

func (c *FrameCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	frames, err := c.client.Frames(ctx)
	if err != nil {
		return err
	}
	c.frames = frames
	c.groups = GroupFrames(frames)
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached frames and groups after ensuring the
// cache is fresh. It tries a read lock first; only takes a write lock
// if a reload is needed.
func (c *FrameCache) ensureLoaded(ctx context.Context) ([]figma.Frame, []FrameGroup, error) {
	c.mu.RLock()
	if c.valid() {
		frames, groups := c.frames, c.groups
		c.mu.RUnlock()
		return frames, groups, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.frames, c.groups, nil
}

// Frames returns every frame of the file.
func (c *FrameCache) Frames(ctx context.Context) ([]figma.Frame, error) {
	frames, _, err := c.ensureLoaded(ctx)
	return frames, err
}

// Groups returns the date groups, newest first.
func (c *FrameCache) Groups(ctx context.Context) ([]FrameGroup, error) {
	_, groups, err := c.ensureLoaded(ctx)
	return groups, err
}

// Group returns one date group by its YYMMDD key.
func (c *FrameCache) Group(ctx context.Context, date string) (FrameGroup, bool, error) {
	_, groups, err := c.ensureLoaded(ctx)
	if err != nil {
		return FrameGroup{}, false, err
	}
	for _, g := range groups {
		if g.Date == date {
			return g, true, nil
		}
	}
	return FrameGroup{}, false, nil
}
