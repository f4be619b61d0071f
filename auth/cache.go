package auth

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache is the storage used by KeySource for fetched key sets.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, cost int64, ttl time.Duration) bool
	Del(key string)
}

// RistrettoCache is a Cache backed by ristretto.
type RistrettoCache struct {
	cache *ristretto.Cache
}

// NewRistrettoCache creates a ristretto backed cache.
func NewRistrettoCache(numCounters, maxCost, bufferItems int64) (*RistrettoCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: bufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}

	return &RistrettoCache{cache: cache}, nil
}

func (r *RistrettoCache) Get(key string) (any, bool) {
	return r.cache.Get(key)
}

func (r *RistrettoCache) Set(key string, value any, cost int64, ttl time.Duration) bool {
	return r.cache.SetWithTTL(key, value, cost, ttl)
}

func (r *RistrettoCache) Del(key string) {
	r.cache.Del(key)
}

// Wait blocks until buffered writes are applied.
func (r *RistrettoCache) Wait() { r.cache.Wait() }

// Close stops the cache's background goroutines.
func (r *RistrettoCache) Close() { r.cache.Close() }
