// Package metadata is the on-device key/value store. Every higher-level
// store (saved accounts, onboarding flag, language, version info) keeps its
// state as whole values under fixed keys of this table.
package metadata

import (
	"context"
)

// Repository reads and writes opaque values by key. Get returns (nil, nil)
// for a key that was never set and a non-nil empty slice for a key set to an
// empty value. Set always overwrites the whole value.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
