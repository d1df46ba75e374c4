package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// InMemoryCache mimics pkg/cache: values are stored JSON-encoded and a
// missing or expired key returns redis.Nil.
type InMemoryCache struct {
	mu       sync.Mutex
	data     map[string]cacheEntry
	getCalls int
	setCalls int
}

type cacheEntry struct {
	value  []byte
	expiry time.Time
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{data: make(map[string]cacheEntry)}
}

func (c *InMemoryCache) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.getCalls++
	entry, ok := c.data[key]
	if !ok || time.Now().After(entry.expiry) {
		return redis.Nil
	}
	return json.Unmarshal(entry.value, dest)
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.setCalls++
	c.data[key] = cacheEntry{value: data, expiry: time.Now().Add(exp)}
	return nil
}

func (c *InMemoryCache) Close() error {
	return nil
}

// Calls returns the number of Get and Set calls so far.
func (c *InMemoryCache) Calls() (gets, sets int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getCalls, c.setCalls
}
