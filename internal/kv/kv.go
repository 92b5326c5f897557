// Package kv is the durable key-value capability behind the persistence
// gateway. The service runs against Redis in multi-host deployments and
// against an embedded SQLite file when running on a single host.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal get/set/delete-by-key capability.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}
