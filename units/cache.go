package units

import (
	"os"
	"sync"
	"time"
)

// cacheEntry pairs a loaded Unit with the mtime of the source file it was
// loaded from, so a stale entry can be detected without reparsing.
type cacheEntry struct {
	unit     *Unit
	filePath string
	modTime  time.Time
	cachedAt time.Time
}

// Cache holds loaded units across LoadUnit calls that UnregisterUnit (or a
// fresh Registry) would otherwise force a reparse for. A cache hit is only
// honored if the backing file's mtime has not advanced since the unit was
// cached, and is rejected outright if the file has been removed.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

// NewUnitCache creates an empty cache.
func NewUnitCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// Put stores unit under key, recording filePath's current mtime. A
// filePath of "" (a preload library with no backing file) is cached
// unconditionally, since there is no mtime to go stale.
func (c *Cache) Put(key string, unit *Unit, filePath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var mt time.Time
	if filePath != "" {
		if info, err := os.Stat(filePath); err == nil {
			mt = info.ModTime()
		}
	}
	c.entries[key] = &cacheEntry{unit: unit, filePath: filePath, modTime: mt, cachedAt: time.Now()}
}

// Get retrieves the unit cached under key, returning false if there is no
// entry, the backing file has been deleted, or the file has been modified
// since caching.
func (c *Cache) Get(key string) (*Unit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if e.filePath != "" {
		info, err := os.Stat(e.filePath)
		if err != nil {
			delete(c.entries, key)
			return nil, false
		}
		if !info.ModTime().Equal(e.modTime) {
			delete(c.entries, key)
			return nil, false
		}
	}
	return e.unit, true
}

// Invalidate removes a single entry.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// Size returns the number of cached entries.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CacheStats summarizes the age distribution of cached entries.
type CacheStats struct {
	TotalEntries int
	OldestEntry  time.Duration
	NewestEntry  time.Duration
}

// GetStats reports cache occupancy and entry ages relative to now.
func (c *Cache) GetStats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := CacheStats{TotalEntries: len(c.entries)}
	if len(c.entries) == 0 {
		return stats
	}
	now := time.Now()
	first := true
	for _, e := range c.entries {
		age := now.Sub(e.cachedAt)
		if first {
			stats.OldestEntry, stats.NewestEntry = age, age
			first = false
			continue
		}
		if age > stats.OldestEntry {
			stats.OldestEntry = age
		}
		if age < stats.NewestEntry {
			stats.NewestEntry = age
		}
	}
	return stats
}
