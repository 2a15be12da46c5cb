// Package kv defines the string-keyed storage port the repositories persist through.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store reads and writes whole values by key. Get returns ErrNotFound for a
// key that was never set.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
