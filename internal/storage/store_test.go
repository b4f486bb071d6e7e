package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeUnderTest runs the shared contract against any Store implementation.
func storeUnderTest(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get absent key", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "access_token", "abc123"))
		v, err := s.Get(ctx, "access_token")
		require.NoError(t, err)
		assert.Equal(t, "abc123", v)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "access_token", "abc123"))
		require.NoError(t, s.Set(ctx, "access_token", "def456"))
		v, err := s.Get(ctx, "access_token")
		require.NoError(t, err)
		assert.Equal(t, "def456", v)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "refresh_token", "r1"))
		require.NoError(t, s.Remove(ctx, "refresh_token"))
		_, err := s.Get(ctx, "refresh_token")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("remove absent key is not an error", func(t *testing.T) {
		assert.NoError(t, s.Remove(ctx, "never-set"))
	})
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	storeUnderTest(t, s)
}

func TestRedisStore_URLAddress(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set(context.Background(), "k", "v"))
	v, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore("redis://bad url with spaces")
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore("file::memory:?cache=shared")
	require.NoError(t, err)

	storeUnderTest(t, s)
}
