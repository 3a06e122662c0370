// Package metadata is the local key/value store of the CLI. It holds small
// pieces of session state such as the persisted cookie jar and the last
// signed-in user.
package metadata

import (
	"context"
	"time"
)

// Well-known keys. Everything under SessionPrefix belongs to the signed-in
// session and is dropped on logout.
const (
	SessionPrefix = "session."
	KeyCookies    = SessionPrefix + "cookies"
	KeyLastUser   = SessionPrefix + "last_user"
)

// Record is a stored value with the time it was last written.
type Record struct {
	Value     []byte
	UpdatedAt time.Time
}

// Repository is a byte-valued key/value store.
type Repository interface {
	// Get returns (nil, nil) for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Lookup reports false for a missing key.
	Lookup(ctx context.Context, key string) (Record, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key starting with prefix and returns how
	// many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}
