package storage

import (
	"context"
	"fmt"

	"taskpad/internal/config"
)

// Open returns the backend named by cfg.Backend.
func Open(ctx context.Context, cfg config.Storage) (KV, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		kv, err := NewFileKV(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		return kv, nil

	case config.BackendSQLite:
		kv, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}
		return kv, nil

	case config.BackendPostgres:
		kv, err := OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
		}
		return kv, nil

	case config.BackendMemory:
		return NewMemoryKV(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %q. Expected 'file', 'sqlite', 'postgres' or 'memory'", cfg.Backend)
	}
}
