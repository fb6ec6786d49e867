// internal/service/cache.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dangerclosesec/transpiler/internal/cache"
	"github.com/dangerclosesec/transpiler/internal/domain"
)

// CacheService memoizes finished translations keyed by source digest
type CacheService struct {
	cache *cache.InMemoryCache
}

// CacheConfig holds configuration for the cache service
type CacheConfig struct {
	TTL         time.Duration
	CleanupFreq time.Duration
}

// NewCacheService creates a cache service and starts its janitor
func NewCacheService(config CacheConfig) *CacheService {
	c := cache.NewInMemoryCache(config.TTL, config.CleanupFreq)
	c.StartCleanup(context.Background())

	return &CacheService{
		cache: c,
	}
}

// Set stores value under key
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	if key == "" {
		return domain.ErrInvalidInput
	}

	s.cache.Set(ctx, key, value)
	return nil
}

// Get copies the value stored under key into result. It returns
// domain.ErrNotFound on a miss.
func (s *CacheService) Get(ctx context.Context, key string, result interface{}) error {
	if key == "" {
		return domain.ErrInvalidInput
	}

	value, found := s.cache.Get(ctx, key)
	if !found {
		return domain.ErrNotFound
	}

	if err := assignValue(value, result); err != nil {
		return fmt.Errorf("assigning cached value: %w", err)
	}
	return nil
}

// GetOrSet fills result from the cache, calling fetch and storing its value
// on a miss.
func (s *CacheService) GetOrSet(ctx context.Context, key string, result interface{}, fetch func() (interface{}, error)) error {
	err := s.Get(ctx, key, result)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("getting from cache: %w", err)
	}

	value, err := fetch()
	if err != nil {
		return err
	}

	if err := s.Set(ctx, key, value); err != nil {
		return fmt.Errorf("storing in cache: %w", err)
	}

	if err := assignValue(value, result); err != nil {
		return fmt.Errorf("assigning fetched value: %w", err)
	}
	return nil
}

// Delete removes a value from the cache
func (s *CacheService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return domain.ErrInvalidInput
	}

	s.cache.Delete(ctx, key)
	return nil
}

// Len reports the number of cached entries
func (s *CacheService) Len() int {
	return s.cache.Len()
}

// Close stops the cleanup routine
func (s *CacheService) Close() {
	s.cache.StopCleanup()
}

// assignValue copies src into dst. Raw JSON is decoded, other values go
// through a JSON round trip so callers never share the cached value.
func assignValue(src interface{}, dst interface{}) error {
	if dst == nil {
		return nil
	}
	if v, ok := dst.(*interface{}); ok {
		*v = src
		return nil
	}

	data, ok := src.([]byte)
	if !ok {
		var err error
		if data, err = json.Marshal(src); err != nil {
			return fmt.Errorf("marshaling value: %w", err)
		}
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshaling value: %w", err)
	}
	return nil
}
