package repository

import (
	"context"
	"encoding/json"
)

// Session defines the interface for session snapshot persistence. Snapshots
// are opaque JSON documents keyed by session ID; the repository never
// interprets their contents.
type Session interface {
	SaveSnapshot(ctx context.Context, sessionID string, snapshot json.RawMessage) error
	GetSnapshot(ctx context.Context, sessionID string) (json.RawMessage, error)
	DeleteSnapshot(ctx context.Context, sessionID string) error
	ListSessionIDs(ctx context.Context) ([]string, error)
}
