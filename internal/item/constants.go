package item

// Item generation constants
const (
	// MaxUpgradeLevel caps per-item upgrades.
	MaxUpgradeLevel = 10

	// UpgradeEffectStep is the per-upgrade-level effect multiplier increment.
	UpgradeEffectStep = 0.1

	// LevelScalingStep is the per-character-level price/effect increment.
	LevelScalingStep = 0.1
)

// Rarity roll weights for random item generation. Selection is a
// cumulative-threshold draw against a single uniform roll in [0, 100).
const (
	WeightCommon    = 60
	WeightUncommon  = 25
	WeightRare      = 12
	WeightEpic      = 2
	WeightLegendary = 1
)

// Enchantment grant chances by rarity tier.
const (
	UncommonMinorChance = 0.3
	RareModerateChance  = 0.5
)
