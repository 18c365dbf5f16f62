package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryKV keeps values in process memory. Nothing survives a restart.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string][]byte{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = slices.Clone(value)
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}
