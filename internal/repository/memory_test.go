package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-games/depthforge/internal/domain"
)

func TestMemorySession(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySession()

	t.Run("missing snapshot", func(t *testing.T) {
		_, err := repo.GetSnapshot(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("save and get", func(t *testing.T) {
		require.NoError(t, repo.SaveSnapshot(ctx, "a", json.RawMessage(`{"credits":500}`)))

		got, err := repo.GetSnapshot(ctx, "a")
		require.NoError(t, err)
		assert.JSONEq(t, `{"credits":500}`, string(got))
	})

	t.Run("save overwrites", func(t *testing.T) {
		require.NoError(t, repo.SaveSnapshot(ctx, "a", json.RawMessage(`{"credits":250}`)))

		got, err := repo.GetSnapshot(ctx, "a")
		require.NoError(t, err)
		assert.JSONEq(t, `{"credits":250}`, string(got))
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		require.NoError(t, repo.SaveSnapshot(ctx, "b", json.RawMessage(`{}`)))

		ids, err := repo.ListSessionIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, ids)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteSnapshot(ctx, "a"))

		_, err := repo.GetSnapshot(ctx, "a")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)

		ids, err := repo.ListSessionIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, ids)

		// deleting a missing snapshot is a no-op
		assert.NoError(t, repo.DeleteSnapshot(ctx, "a"))
	})
}
