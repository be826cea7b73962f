package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAdapter_GetSet(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	err := adapter.Set(ctx, "key1", json.RawMessage(`"value1"`))
	require.NoError(t, err)

	raw, ok, err := adapter.Get(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, json.RawMessage(`"value1"`), raw)

	_, ok, err = adapter.Get(ctx, "nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryAdapter_Delete(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	require.NoError(t, adapter.Set(ctx, "key1", json.RawMessage(`"v"`)))
	require.NoError(t, adapter.Delete(ctx, "key1"))

	_, ok, err := adapter.Get(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Delete of a missing key is not an error.
	require.NoError(t, adapter.Delete(ctx, "nonexistent"))
}

func TestMemoryAdapter_Clear(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	_ = adapter.Set(ctx, "a", json.RawMessage(`1`))
	_ = adapter.Set(ctx, "b", json.RawMessage(`2`))

	require.NoError(t, adapter.Clear(ctx))

	keys, err := adapter.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFileAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage", "horizon.json")
	adapter := NewFileAdapter(path)

	require.NoError(t, adapter.Set(ctx, "key1", json.RawMessage(`{"n":1}`)))
	require.NoError(t, adapter.Set(ctx, "key2", json.RawMessage(`"two"`)))

	// A fresh adapter over the same path sees the persisted data.
	reopened := NewFileAdapter(path)
	raw, ok, err := reopened.Get(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"n":1}`, string(raw))

	keys, err := reopened.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"key1", "key2"}, keys)
}

func TestFileAdapter_MissingFileReadsEmpty(t *testing.T) {
	ctx := context.Background()
	adapter := NewFileAdapter(filepath.Join(t.TempDir(), "never-written.json"))

	_, ok, err := adapter.Get(ctx, "anything")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := adapter.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	// Clear of a never-written file is fine too.
	require.NoError(t, adapter.Clear(ctx))
}

func TestFileAdapter_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "horizon.json")
	adapter := NewFileAdapter(path)

	require.NoError(t, adapter.Set(ctx, "key1", json.RawMessage(`true`)))
	require.NoError(t, adapter.Delete(ctx, "key1"))

	_, ok, err := adapter.Get(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, adapter.Set(ctx, "key2", json.RawMessage(`false`)))
	require.NoError(t, adapter.Clear(ctx))

	keys, err := adapter.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
