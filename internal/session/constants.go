package session

import "time"

const (
	// StartingCredits seeds a new session's wallet.
	StartingCredits = 500

	// SnapshotCacheSize bounds the manager's saved-snapshot cache.
	SnapshotCacheSize = 1024

	// SnapshotCacheTTL expires saved-snapshot cache entries so a long-idle
	// session still writes through on its next save.
	SnapshotCacheTTL = 30 * time.Minute
)
