// Package tokens manages the bearer token pair the client authenticates with.
//
// The Manager is the only writer of the persisted tokens and the only source
// the HTTP transport reads the Authorization header from, which keeps the
// persisted value and the attached header consistent at every observation
// point between operations.
package tokens

import (
	"context"
	"errors"
	"sync"

	"firstlog/internal/observability"
	"firstlog/internal/storage"
)

// Fixed store keys for the token pair.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Manager holds the in-memory token pair and mirrors it into a Store.
type Manager struct {
	mu      sync.RWMutex
	store   storage.Store
	access  string
	refresh string
	log     *observability.Logger
}

// NewManager creates a Manager over the given store, loading any persisted
// tokens so a restarted client resumes its session.
func NewManager(ctx context.Context, store storage.Store) *Manager {
	m := &Manager{
		store: store,
		log:   observability.GlobalLogger,
	}

	// A store failure at startup degrades to "no session".
	if v, err := store.Get(ctx, AccessTokenKey); err == nil {
		m.access = v
	} else if !errors.Is(err, storage.ErrNotFound) {
		m.log.Warn("token load failed, starting unauthenticated", "error", err)
	}
	if v, err := store.Get(ctx, RefreshTokenKey); err == nil {
		m.refresh = v
	}

	return m
}

// Save updates the in-memory copy the transport attaches as the
// Authorization header and mirrors it into the store. A store failure
// degrades to memory-only and never fails the caller; the in-memory copy
// stays the single source the header is read from, so the two can never
// diverge within one logical operation.
func (m *Manager) Save(ctx context.Context, access string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	if err := m.store.Set(ctx, AccessTokenKey, access); err != nil {
		m.log.Warn("access token persistence failed, session is memory-only", "error", err)
	}
}

// SaveRefresh stores the refresh token. It is only sent back to the server
// at logout, so a persistence failure degrades the same way Save does.
func (m *Manager) SaveRefresh(ctx context.Context, refresh string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh = refresh
	if err := m.store.Set(ctx, RefreshTokenKey, refresh); err != nil {
		m.log.Warn("refresh token persistence failed", "error", err)
	}
}

// Access returns the current access token, or empty when unauthenticated.
func (m *Manager) Access() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access
}

// Refresh returns the current refresh token, or empty when none is held.
func (m *Manager) Refresh() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh
}

// Clear removes both tokens from memory and the store in one logical
// operation. It is idempotent and never fails the caller; store errors
// are logged and the in-memory copies are dropped regardless.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
	if err := m.store.Remove(ctx, AccessTokenKey); err != nil {
		m.log.Warn("access token removal failed", "error", err)
	}
	if err := m.store.Remove(ctx, RefreshTokenKey); err != nil {
		m.log.Warn("refresh token removal failed", "error", err)
	}
}
