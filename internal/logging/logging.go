// Package logging builds the process logger. The TUI owns the terminal, so
// log records go to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

func ParseLevel(v string) (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(v) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Open returns a logger appending to path. An empty path discards
// everything. The returned close function is always non-nil.
func Open(path, level string) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, noop, err
	}
	if path == "" {
		return slog.New(slog.DiscardHandler), noop, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, noop, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, noop, err
	}
	return New(f, lvl), f.Close, nil
}
