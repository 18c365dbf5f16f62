package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 25 * time.Millisecond

// FileKV stores each key as <Dir>/<key>.json.
//
// Writes go to a temporary file that is renamed over the target, and both
// reads and writes hold an exclusive lock on <key>.json.lock so a second
// process never observes a half-written value.
type FileKV struct {
	Dir string
}

func NewFileKV(dir string) (*FileKV, error) {
	if dir == "" {
		return nil, errors.New("storage directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FileKV{Dir: dir}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.Dir, key+".json")
}

func (f *FileKV) lock(ctx context.Context, key string) (*flock.Flock, error) {
	fl := flock.New(f.path(key) + ".lock")
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	if !locked {
		return nil, fmt.Errorf("lock %s: not acquired", key)
	}
	return fl, nil
}

func (f *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	fl, err := f.lock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fl.Unlock() }()

	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (f *FileKV) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	fl, err := f.lock(ctx, key)
	if err != nil {
		return err
	}
	defer func() { _ = fl.Unlock() }()

	tmp, err := os.CreateTemp(f.Dir, key+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(value)
	closeErr := tmp.Close()
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return writeErr
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return closeErr
	}

	if err := os.Rename(tmpPath, f.path(key)); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func (f *FileKV) Close() error {
	return nil
}
