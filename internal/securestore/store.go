// Package securestore provides the secure key-value area the session
// pointer lives in. The interface mirrors a mobile platform keychain: string
// keys, string values, private to the device and app.
package securestore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key is absent or its stored value
// can no longer be read.
var ErrNotFound = errors.New("securestore: key not found")

// Store is a narrow secure key-value interface.
type Store interface {
	// Set persists value under key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
