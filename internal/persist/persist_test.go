package persist

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Put(ctx, "theme", "dark"))
	assert.Equal(t, 1, m.Len())
	v, ok, err := m.Get(ctx, "theme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", v)

	require.NoError(t, m.Delete(ctx, "theme"))
	_, ok, err = m.Get(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Delete(ctx, "never-existed"))
	assert.Equal(t, 0, m.Len())
	require.NoError(t, m.Close())
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "prefs", map[string]any{"lang": "en", "limit": float64(5)}))
	v, ok, err := s.Get(ctx, "prefs")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"lang": "en", "limit": float64(5)}, v)

	// Upsert overwrites.
	require.NoError(t, s.Put(ctx, "prefs", "replaced"))
	v, ok, err = s.Get(ctx, "prefs")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "replaced", v)

	require.NoError(t, s.Delete(ctx, "prefs"))
	_, ok, err = s.Get(ctx, "prefs")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "key", "value"))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	v, ok, err := reopened.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.Error(t, err)
}
