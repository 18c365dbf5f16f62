// Package storage persists the serialized task list under a single key.
//
// A KV backend only needs to get and overwrite opaque values by key; the
// TaskRepository on top of it owns the JSON encoding of the task list and
// the recovery rules for missing or unreadable data.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by KV.Get when nothing is stored under the key.
var ErrNotFound = errors.New("key not found")

// KV is a durable key-value store holding whole values.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	Close() error
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
