package shared

import (
	"context"
	"errors"
	"time"
)

// TTLCache is a byte-oriented key/value cache whose entries expire after a TTL.
// Implementations must treat an expired entry exactly like a missing one.
type TTLCache interface {
	// Get returns the cached value and true, or nil and false on a miss or expiry
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl, overwriting any previous value
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache
	Close() error
}

// ErrLockNotObtained is returned by a Locker when the key is held elsewhere
var ErrLockNotObtained = errors.New("lock not obtained")

// Locker hands out short-lived exclusive locks keyed by string
type Locker interface {
	// Obtain acquires key for ttl or returns ErrLockNotObtained
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// Lock is a held lock
type Lock interface {
	Release(ctx context.Context) error
}
