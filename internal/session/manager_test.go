package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-games/depthforge/internal/domain"
)

// fakeRepository is an in-memory repository.Session for manager tests.
type fakeRepository struct {
	mu        sync.Mutex
	snapshots map[string]json.RawMessage
	saves     int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{snapshots: make(map[string]json.RawMessage)}
}

func (r *fakeRepository) SaveSnapshot(_ context.Context, sessionID string, snapshot json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[sessionID] = append(json.RawMessage(nil), snapshot...)
	r.saves++
	return nil
}

func (r *fakeRepository) GetSnapshot(_ context.Context, sessionID string) (json.RawMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot, ok := r.snapshots[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return snapshot, nil
}

func (r *fakeRepository) DeleteSnapshot(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.snapshots, sessionID)
	return nil
}

func (r *fakeRepository) ListSessionIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.snapshots))
	for id := range r.snapshots {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeRepository) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func newTestManager(t *testing.T) (*Manager, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	return NewManager(newTestFactory(t), testRecipes(), repo), repo
}

func TestManagerCreateGetDelete(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s := m.Create()
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, 1, m.Count())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, m.Delete(ctx, s.ID()))
	assert.Equal(t, 0, m.Count())

	assert.ErrorIs(t, m.Delete(ctx, s.ID()), domain.ErrSessionNotFound)
}

func TestManagerSaveLoad(t *testing.T) {
	m, repo := newTestManager(t)
	ctx := context.Background()

	s := m.Create()
	require.NoError(t, s.SetPlayerLevel(3))
	require.NoError(t, s.AddCredits(50))

	wrote, err := m.Save(ctx, s.ID())
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Equal(t, 1, repo.saveCount())

	// fresh manager, same repo
	m2 := NewManager(newTestFactory(t), testRecipes(), repo)
	restored, err := m2.Load(ctx, s.ID())
	require.NoError(t, err)

	assert.Equal(t, 3, restored.PlayerLevel())
	assert.Equal(t, StartingCredits+50, restored.Credits())
	assert.Equal(t, 1, m2.Count())

	_, err = m2.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManagerSaveSkipsUnchanged(t *testing.T) {
	m, repo := newTestManager(t)
	ctx := context.Background()

	s := m.Create()

	wrote, err := m.Save(ctx, s.ID())
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = m.Save(ctx, s.ID())
	require.NoError(t, err)
	assert.False(t, wrote)
	assert.Equal(t, 1, repo.saveCount())

	require.NoError(t, s.AddCredits(10))

	wrote, err = m.Save(ctx, s.ID())
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Equal(t, 2, repo.saveCount())
}

func TestManagerSaveWithoutRepository(t *testing.T) {
	m := NewManager(newTestFactory(t), testRecipes(), nil)
	s := m.Create()

	_, err := m.Save(context.Background(), s.ID())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = m.Load(context.Background(), s.ID())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestManagerSaveAll(t *testing.T) {
	m, repo := newTestManager(t)
	ctx := context.Background()

	a := m.Create()
	b := m.Create()

	written := m.SaveAll(ctx)
	assert.Equal(t, 2, written)

	// only one session changes; only it writes again
	require.NoError(t, a.AddCredits(5))
	written = m.SaveAll(ctx)
	assert.Equal(t, 1, written)
	assert.Equal(t, 3, repo.saveCount())

	_ = b
}

func TestManagerUpdateAll(t *testing.T) {
	m, _ := newTestManager(t)

	s := m.Create()
	m.UpdateAll(context.Background(), 35*time.Second)

	err := s.With(func(state *State) error {
		assert.NotEmpty(t, state.Market.Listings())
		return nil
	})
	require.NoError(t, err)
}
