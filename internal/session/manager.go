package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/item"
	"github.com/kiln-games/depthforge/internal/logger"
	"github.com/kiln-games/depthforge/internal/repository"
)

// Manager owns the live sessions and their persistence. Lookups take a
// read lock; create/delete take the write lock. The saved-snapshot cache
// remembers the last serialized form per session so autosave skips
// sessions that have not changed.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	factory *item.Factory
	recipes []domain.Recipe
	repo    repository.Session

	saved *expirable.LRU[string, string]
	newID func() string
}

// NewManager creates a manager building sessions from the shared factory
// and recipe list. repo may be nil, in which case save and load fail with
// ErrInvalidInput.
func NewManager(factory *item.Factory, recipes []domain.Recipe, repo repository.Session) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		factory:  factory,
		recipes:  recipes,
		repo:     repo,
		saved:    expirable.NewLRU[string, string](SnapshotCacheSize, nil, SnapshotCacheTTL),
		newID:    uuid.NewString,
	}
}

// Create starts a fresh session and returns it.
func (m *Manager) Create() *Session {
	s := New(m.newID(), m.factory, m.recipes)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	return s
}

// Get returns the live session with the given ID.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return s, nil
}

// Delete removes a live session and its persisted snapshot.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	_, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}

	m.saved.Remove(sessionID)

	if m.repo != nil {
		if err := m.repo.DeleteSnapshot(ctx, sessionID); err != nil {
			logger.FromContext(ctx).Warn("failed to delete session snapshot",
				"session_id", sessionID, "error", err)
		}
	}
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Save persists a session's snapshot. Unchanged sessions are skipped via
// the saved-snapshot cache; Save reports whether a write happened.
func (m *Manager) Save(ctx context.Context, sessionID string) (bool, error) {
	if m.repo == nil {
		return false, fmt.Errorf("%w: no repository configured", domain.ErrInvalidInput)
	}

	s, err := m.Get(sessionID)
	if err != nil {
		return false, err
	}

	data, err := json.Marshal(s.Export())
	if err != nil {
		return false, fmt.Errorf("marshal session %s: %w", sessionID, err)
	}

	if prev, ok := m.saved.Get(sessionID); ok && prev == string(data) {
		return false, nil
	}

	if err := m.repo.SaveSnapshot(ctx, sessionID, data); err != nil {
		return false, fmt.Errorf("save session %s: %w", sessionID, err)
	}
	m.saved.Add(sessionID, string(data))
	return true, nil
}

// Load restores a session from its persisted snapshot, replacing any live
// session with the same ID.
func (m *Manager) Load(ctx context.Context, sessionID string) (*Session, error) {
	if m.repo == nil {
		return nil, fmt.Errorf("%w: no repository configured", domain.ErrInvalidInput)
	}

	data, err := m.repo.GetSnapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}

	s := New(sessionID, m.factory, m.recipes)
	if err := s.Import(&snapshot); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[sessionID] = s
	m.mu.Unlock()

	m.saved.Add(sessionID, string(data))
	return s, nil
}

// SaveAll persists every live session, logging and continuing past
// individual failures. Returns the number of sessions written.
func (m *Manager) SaveAll(ctx context.Context) int {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	written := 0
	for _, id := range ids {
		wrote, err := m.Save(ctx, id)
		if err != nil {
			logger.FromContext(ctx).Error("session autosave failed",
				"session_id", id, "error", err)
			continue
		}
		if wrote {
			written++
		}
	}
	return written
}

// UpdateAll ticks every live session's time-driven state.
func (m *Manager) UpdateAll(ctx context.Context, delta time.Duration) {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		if err := s.Update(delta); err != nil {
			logger.FromContext(ctx).Warn("session update failed",
				"session_id", s.ID(), "error", err)
		}
	}
}
