package tokens

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firstlog/internal/storage"
)

// failingStore always errors, to exercise the degraded paths.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("store unavailable")
}
func (failingStore) Set(context.Context, string, string) error {
	return errors.New("store unavailable")
}
func (failingStore) Remove(context.Context, string) error {
	return errors.New("store unavailable")
}

func TestManager_SaveThenAccess(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	m := NewManager(ctx, store)

	m.Save(ctx, "tok-1")

	// Persisted value and the header source agree.
	assert.Equal(t, "tok-1", m.Access())
	persisted, err := store.Get(ctx, AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", persisted)
}

func TestManager_ClearRemovesBothSides(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	m := NewManager(ctx, store)

	m.Save(ctx, "tok-1")
	m.SaveRefresh(ctx, "ref-1")

	m.Clear(ctx)

	assert.Empty(t, m.Access())
	assert.Empty(t, m.Refresh())
	_, err := store.Get(ctx, AccessTokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.Get(ctx, RefreshTokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestManager_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, storage.NewMemoryStore())

	m.Clear(ctx)
	m.Clear(ctx)
	assert.Empty(t, m.Access())
}

func TestManager_ConsistencyAcrossSequences(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	m := NewManager(ctx, store)

	steps := []func(){
		func() { m.Save(ctx, "a") },
		func() { m.Save(ctx, "b") },
		func() { m.Clear(ctx) },
		func() { m.Save(ctx, "c") },
		func() { m.Clear(ctx) },
	}

	for _, step := range steps {
		step()

		persisted, err := store.Get(ctx, AccessTokenKey)
		if errors.Is(err, storage.ErrNotFound) {
			persisted = ""
		} else {
			require.NoError(t, err)
		}
		assert.Equal(t, persisted, m.Access())
	}
}

func TestManager_SaveSurvivesStoreFailure(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, failingStore{})

	// A failed write degrades to memory-only. The header source keeps
	// serving the token, so the session stays usable and consistent.
	m.Save(ctx, "tok-123")
	assert.Equal(t, "tok-123", m.Access())

	m.SaveRefresh(ctx, "ref-123")
	assert.Equal(t, "ref-123", m.Refresh())

	m.Clear(ctx)
	assert.Empty(t, m.Access())
	assert.Empty(t, m.Refresh())
}

func TestManager_ResumesPersistedSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, AccessTokenKey, "persisted"))
	require.NoError(t, store.Set(ctx, RefreshTokenKey, "persisted-refresh"))

	m := NewManager(ctx, store)
	assert.Equal(t, "persisted", m.Access())
	assert.Equal(t, "persisted-refresh", m.Refresh())
}

func TestManager_StoreFailureDegradesToAnonymous(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, failingStore{})

	assert.Empty(t, m.Access())

	// Clear must not panic or surface the store failure.
	m.Clear(ctx)
	assert.Empty(t, m.Access())
}
