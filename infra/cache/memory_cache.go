package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/pointmarket/pkg/cache"
	"github.com/amirasaad/pointmarket/pkg/dto"
)

// MemoryCache implements cache.LeaderboardCache in process memory.
type MemoryCache struct {
	entries map[int]*cacheEntry
	gen     uint64
	mu      sync.RWMutex
	now     func() time.Time
}

type cacheEntry struct {
	rows      []dto.LeaderboardEntry
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory leaderboard cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[int]*cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached page for limit if it has not expired.
func (c *MemoryCache) Get(_ context.Context, limit int) ([]dto.LeaderboardEntry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[limit]
	if !exists || c.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return append([]dto.LeaderboardEntry{}, entry.rows...), true, nil
}

// Generation returns the number of invalidations so far.
func (c *MemoryCache) Generation(context.Context) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen, nil
}

// Set stores a page with TTL unless the cache was invalidated after gen was read.
func (c *MemoryCache) Set(_ context.Context, limit int, gen uint64, rows []dto.LeaderboardEntry, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return nil
	}
	c.entries[limit] = &cacheEntry{
		rows:      append([]dto.LeaderboardEntry{}, rows...),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Invalidate removes every page and bumps the generation.
func (c *MemoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.entries = make(map[int]*cacheEntry)
	return nil
}

var _ cache.LeaderboardCache = (*MemoryCache)(nil)
