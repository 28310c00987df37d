// internal/pkg/session/store.go
package session

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Store.Get for missing or expired keys.
var ErrKeyNotFound = errors.New("session: key not found")

// Store is the key/value surface the session manager and rate limiter need.
// Redis backs it in deployments; MemoryStore backs it when no Redis address
// is configured and in tests.
type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Incr increments key and starts its expiry window on the first hit.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	// Keys lists keys matching a glob pattern such as "session:abc:*".
	Keys(ctx context.Context, pattern string) ([]string, error)
}
