package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpad/internal/config"
	"taskpad/internal/storage"
)

// ---------------------------------------------------------------------------
// Shared KV contract
// ---------------------------------------------------------------------------

// exerciseKV runs the behaviour every backend must share.
func exerciseKV(t *testing.T, kv storage.KV) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "todo_tasks")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, kv.Set(ctx, "todo_tasks", []byte(`[1]`)))
	got, err := kv.Get(ctx, "todo_tasks")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))

	require.NoError(t, kv.Set(ctx, "todo_tasks", []byte(`[]`)))
	got, err = kv.Get(ctx, "todo_tasks")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, kv.Set(ctx, "other", []byte(`x`)))
	got, err = kv.Get(ctx, "todo_tasks")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got), "keys are independent")
}

func Test_MemoryKV_Contract(t *testing.T) {
	t.Parallel()
	exerciseKV(t, storage.NewMemoryKV())
}

func Test_FileKV_Contract(t *testing.T) {
	t.Parallel()
	kv, err := storage.NewFileKV(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	exerciseKV(t, kv)
}

func Test_SQLiteKV_Contract(t *testing.T) {
	t.Parallel()
	kv, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "nested", "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	exerciseKV(t, kv)
}

// ---------------------------------------------------------------------------
// FileKV specifics
// ---------------------------------------------------------------------------

func Test_FileKV_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	kv, err := storage.NewFileKV(dir)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, kv.Set(context.Background(), "todo_tasks", []byte(`[]`)))
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.FileExists(t, filepath.Join(dir, "todo_tasks.json"))
}

func Test_FileKV_RejectsPathLikeKeys(t *testing.T) {
	t.Parallel()
	kv, err := storage.NewFileKV(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", "a/b", ".."} {
		assert.Error(t, kv.Set(context.Background(), key, []byte("x")), key)
		_, err := kv.Get(context.Background(), key)
		assert.Error(t, err, key)
	}
}

func Test_FileKV_CancelledContext(t *testing.T) {
	t.Parallel()
	kv, err := storage.NewFileKV(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, kv.Set(ctx, "todo_tasks", []byte(`[]`)))
}

func Test_NewFileKV_EmptyDir(t *testing.T) {
	t.Parallel()
	_, err := storage.NewFileKV("")
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// SQLiteKV specifics
// ---------------------------------------------------------------------------

func Test_SQLiteKV_SurvivesReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tasks.db")

	kv, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), "todo_tasks", []byte(`["kept"]`)))
	require.NoError(t, kv.Close())

	kv, err = storage.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	got, err := kv.Get(context.Background(), "todo_tasks")
	require.NoError(t, err)
	assert.Equal(t, `["kept"]`, string(got))
}

func Test_OpenSQLite_EmptyPath(t *testing.T) {
	t.Parallel()
	_, err := storage.OpenSQLite("")
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Open
// ---------------------------------------------------------------------------

func Test_Open_Backends(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.Storage
		wantErr bool
		check   func(t *testing.T, kv storage.KV)
	}{
		{
			name: "file",
			cfg:  config.Storage{Backend: config.BackendFile, Path: filepath.Join(dir, "files")},
			check: func(t *testing.T, kv storage.KV) {
				_, ok := kv.(*storage.FileKV)
				assert.True(t, ok)
			},
		},
		{
			name: "sqlite",
			cfg:  config.Storage{Backend: config.BackendSQLite, Path: filepath.Join(dir, "tasks.db")},
			check: func(t *testing.T, kv storage.KV) {
				_, ok := kv.(*storage.SQLiteKV)
				assert.True(t, ok)
			},
		},
		{
			name: "memory",
			cfg:  config.Storage{Backend: config.BackendMemory},
			check: func(t *testing.T, kv storage.KV) {
				_, ok := kv.(*storage.MemoryKV)
				assert.True(t, ok)
			},
		},
		{
			name:    "unknown",
			cfg:     config.Storage{Backend: "redis"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, err := storage.Open(context.Background(), tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = kv.Close() })
			tt.check(t, kv)
		})
	}
}

func Test_Open_FileBackendCreatesDirectory(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "a", "b")
	kv, err := storage.Open(context.Background(), config.Storage{Backend: config.BackendFile, Path: dir})
	require.NoError(t, err)
	defer kv.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
