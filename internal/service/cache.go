package service

import (
	"context"
	"time"
)

// Cache is the subset of the redis cache used by services. Implementations
// fail safe: errors behave like misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const (
	vendorListCacheKey = "vendors:list"
	vendorListCacheTTL = time.Minute
)
