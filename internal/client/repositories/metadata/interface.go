// Package metadata is the device key-value storage port. Session fields,
// saved credentials and the modified-recipes list are all stored here under
// the fixed keys declared in internal/common.
package metadata

import (
	"context"
)

// Repository is a string-keyed byte store. Get returns (nil, nil) for keys
// that are not present. SetMany and DeleteMany apply all keys or none.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
