package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kiln-games/depthforge/internal/domain"
)

// MemorySession is an in-memory Session repository. Used when no database
// is configured, and as the test double for the session manager.
type MemorySession struct {
	mu        sync.RWMutex
	snapshots map[string]json.RawMessage
	order     []string
}

// NewMemorySession creates an empty in-memory session repository.
func NewMemorySession() *MemorySession {
	return &MemorySession{snapshots: make(map[string]json.RawMessage)}
}

// SaveSnapshot stores a copy of the snapshot.
func (m *MemorySession) SaveSnapshot(_ context.Context, sessionID string, snapshot json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snapshots[sessionID]; !ok {
		m.order = append(m.order, sessionID)
	}
	m.snapshots[sessionID] = append(json.RawMessage(nil), snapshot...)
	return nil
}

// GetSnapshot returns the stored snapshot.
func (m *MemorySession) GetSnapshot(_ context.Context, sessionID string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot, ok := m.snapshots[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return snapshot, nil
}

// DeleteSnapshot removes the stored snapshot.
func (m *MemorySession) DeleteSnapshot(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snapshots[sessionID]; !ok {
		return nil
	}
	delete(m.snapshots, sessionID)
	for i, id := range m.order {
		if id == sessionID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListSessionIDs returns session IDs in insertion order.
func (m *MemorySession) ListSessionIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...), nil
}
