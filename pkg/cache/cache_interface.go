package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get loads the value at key into dest. Returns found=false on a miss,
	// in which case dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value at key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
