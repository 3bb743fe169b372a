package db

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache keys for the upstream fare calculator indexes.
const (
	StationIndexKey = "lta:mrt:index"
	BusIndexKey     = "lta:bus:index"
)

// IndexCache holds parsed upstream indexes. Keys are tracked so a single
// index kind can be dropped without clearing everything.
type IndexCache struct {
	cache *ristretto.Cache
	ttl   time.Duration

	mu   sync.Mutex
	keys map[string]struct{}
}

func NewIndexCache(ttl time.Duration) (*IndexCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000, // number of keys to track frequency of
		MaxCost:     100,
		BufferItems: 64, // number of keys per Get buffer
		// costs are item counts, not bytes
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return &IndexCache{cache: cache, ttl: ttl, keys: make(map[string]struct{})}, nil
}

func (c *IndexCache) Get(key string) (interface{}, bool) {
	return c.cache.Get(key)
}

// Set stores value and waits for the write buffer so an immediate Get sees it.
func (c *IndexCache) Set(key string, value interface{}) {
	c.mu.Lock()
	c.keys[key] = struct{}{}
	c.mu.Unlock()
	c.cache.SetWithTTL(key, value, 1, c.ttl)
	c.cache.Wait()
}

func (c *IndexCache) Del(key string) {
	c.mu.Lock()
	delete(c.keys, key)
	c.mu.Unlock()
	c.cache.Del(key)
}

// Clear drops every tracked key and returns how many were removed.
func (c *IndexCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.keys)
	for key := range c.keys {
		c.cache.Del(key)
	}
	c.keys = make(map[string]struct{})
	return n
}

func (c *IndexCache) Close() {
	c.cache.Close()
}
