package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Entry is one cached value with its expiry metadata.
type Entry struct {
	Data      json.RawMessage
	Timestamp time.Time
	TTL       time.Duration
}

// Cache is a small in-memory TTL cache. Values are stored as JSON so callers
// get their own copy back and never share mutable state through the cache.
type Cache struct {
	entries map[string]Entry
	mu      sync.RWMutex
}

func New() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Get unmarshals the cached value for key into target.
// Returns false when the key is missing or expired.
func (c *Cache) Get(key string, target interface{}) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if entry.TTL > 0 && time.Since(entry.Timestamp) > entry.TTL {
		c.mu.Lock()
		if e, exists := c.entries[key]; exists && e.TTL > 0 && time.Since(e.Timestamp) > e.TTL {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(entry.Data, target); err != nil {
		return false, fmt.Errorf("unmarshal cache entry: %w", err)
	}
	return true, nil
}

// Put stores value under key. A ttl of 0 means the entry never expires.
func (c *Cache) Put(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	c.mu.Lock()
	c.entries[key] = Entry{Data: data, Timestamp: time.Now(), TTL: ttl}
	c.mu.Unlock()
	return nil
}

// Delete removes a key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
