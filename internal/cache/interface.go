package cache

import (
	"context"
	"time"
)

// Cache is the best-effort snapshot mirror in front of the cart store. A
// miss or failure is never fatal; the repository stays the source of truth.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
