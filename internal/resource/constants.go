package resource

import (
	"time"

	"github.com/kiln-games/depthforge/internal/domain"
)

// Ledger and harvest tuning
const (
	// DefaultStorageCapacity bounds the total units a ledger holds across
	// all types and rarities.
	DefaultStorageCapacity = 1000

	// HarvestRange is the maximum distance, in world units, between the
	// player and a node for a harvest to connect.
	HarvestRange = 40.0

	// HarvestStaminaCost is the flat stamina price of one harvest.
	HarvestStaminaCost = 10

	// SkillYieldRate converts gathering skill into bonus yield, floored.
	SkillYieldRate = 0.2

	// BaseNodeCount and NodesPerFloor size node generation for a floor.
	BaseNodeCount = 10
	NodesPerFloor = 2
)

// respawnDelays is the per-rarity node respawn wait.
var respawnDelays = map[domain.Rarity]time.Duration{
	domain.RarityCommon:    30 * time.Second,
	domain.RarityRare:      60 * time.Second,
	domain.RarityEpic:      120 * time.Second,
	domain.RarityLegendary: 300 * time.Second,
}

// amountRanges is the per-rarity inclusive yield roll range.
var amountRanges = map[domain.Rarity][2]int{
	domain.RarityCommon:    {3, 5},
	domain.RarityRare:      {2, 4},
	domain.RarityEpic:      {1, 3},
	domain.RarityLegendary: {1, 2},
}
