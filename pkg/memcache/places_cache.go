package memcache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// PlacesCache is a read-through TTL cache for place-search results. Entries
// are immutable once written and expire lazily on read; writes are atomic per
// key so concurrent request pipelines can share one instance.
type PlacesCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	SetWithTTL(key string, value any, ttl time.Duration)
	Len() int
}

type entry struct {
	value     any
	expiresAt time.Time
}

type placesCache struct {
	mu         sync.RWMutex
	data       map[string]entry
	defaultTTL time.Duration
	maxEntries int
}

func NewPlacesCache(defaultTTL time.Duration) PlacesCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &placesCache{
		data:       make(map[string]entry),
		defaultTTL: defaultTTL,
		maxEntries: 1000,
	}
}

// Key builds a stable cache key from an operation name and its parameters.
func Key(operation string, params any) string {
	raw, err := json.Marshal(params)
	if err != nil {
		raw = []byte(fmt.Sprintf("%+v", params))
	}
	sum := sha256.Sum256(append([]byte(operation+":"), raw...))
	return fmt.Sprintf("%x", sum[:8])
}

func (c *placesCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another goroutine may have refreshed it.
		if cur, still := c.data[key]; still && time.Now().After(cur.expiresAt) {
			delete(c.data, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *placesCache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

func (c *placesCache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}

	if len(c.data) > c.maxEntries {
		now := time.Now()
		for k, e := range c.data {
			if now.After(e.expiresAt) {
				delete(c.data, k)
			}
		}
	}
}

func (c *placesCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
