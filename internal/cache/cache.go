package cache

import (
	"context"
	"sync"
	"time"

	"github.com/alexraskin/linkflow/internal/models"
)

// Backend caches profile snapshots keyed by username.
type Backend interface {
	GetSnapshot(ctx context.Context, username string) (*models.Snapshot, bool)
	SetSnapshot(ctx context.Context, username string, s models.Snapshot)
	Invalidate(ctx context.Context, username string)
	Close() error
}

type entry struct {
	snapshot models.Snapshot
	exp      time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, entries: make(map[string]entry)}
}

func (c *Cache) GetSnapshot(_ context.Context, username string) (*models.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[username]
	if !ok || time.Now().After(e.exp) {
		return nil, false
	}
	s := e.snapshot
	return &s, true
}

func (c *Cache) SetSnapshot(_ context.Context, username string, s models.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[username] = entry{snapshot: s, exp: time.Now().Add(c.ttl)}
}

func (c *Cache) Invalidate(_ context.Context, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, username)
}

// Purge drops expired entries.
func (c *Cache) Purge() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.exp) {
			delete(c.entries, k)
		}
	}
}

func (c *Cache) Close() error {
	return nil
}
