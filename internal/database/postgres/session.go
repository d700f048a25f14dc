package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kiln-games/depthforge/internal/domain"
)

// SessionRepository implements the session snapshot repository for
// PostgreSQL. Snapshots are stored as JSONB, one row per session.
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// SaveSnapshot upserts a session's snapshot
func (r *SessionRepository) SaveSnapshot(ctx context.Context, sessionID string, snapshot json.RawMessage) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO session_snapshots (session_id, snapshot, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id)
		DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = now()`,
		sessionID, snapshot)
	if err != nil {
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}

// GetSnapshot retrieves a session's snapshot
func (r *SessionRepository) GetSnapshot(ctx context.Context, sessionID string) (json.RawMessage, error) {
	var snapshot json.RawMessage
	err := r.db.QueryRow(ctx,
		`SELECT snapshot FROM session_snapshots WHERE session_id = $1`,
		sessionID).Scan(&snapshot)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session snapshot: %w", err)
	}
	return snapshot, nil
}

// DeleteSnapshot removes a session's snapshot
func (r *SessionRepository) DeleteSnapshot(ctx context.Context, sessionID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM session_snapshots WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session snapshot: %w", err)
	}
	return nil
}

// ListSessionIDs lists persisted session IDs, most recently saved first
func (r *SessionRepository) ListSessionIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT session_id FROM session_snapshots ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return ids, nil
}
