// Package blobs stores opaque values under string keys. Every Set keeps
// the value it replaces as the previous generation of that key.
package blobs

import "context"

type Repository interface {
	// Get returns common.ErrNotFound for an unknown key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Previous returns the value replaced by the latest Set.
	Previous(ctx context.Context, key string) ([]byte, error)
}
