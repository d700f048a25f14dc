package worker

import (
	"context"
	"time"

	"github.com/kiln-games/depthforge/internal/logger"
	"github.com/kiln-games/depthforge/internal/session"
)

// AutosaveJob persists every live session through the manager.
type AutosaveJob struct {
	Manager *session.Manager
}

// Process implements Job.
func (j *AutosaveJob) Process(ctx context.Context) error {
	written := j.Manager.SaveAll(ctx)
	if written > 0 {
		logger.FromContext(ctx).Info("session autosave complete", "sessions_written", written)
	}
	return nil
}

// ShopTickJob advances every live session's time-driven shop state.
type ShopTickJob struct {
	Manager *session.Manager
	Delta   time.Duration
}

// Process implements Job.
func (j *ShopTickJob) Process(ctx context.Context) error {
	j.Manager.UpdateAll(ctx, j.Delta)
	return nil
}
