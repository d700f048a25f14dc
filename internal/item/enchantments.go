package item

import "github.com/kiln-games/depthforge/internal/domain"

// EnchantTier groups enchantments by power. Rarity decides which tiers an
// item may roll from at creation time.
type EnchantTier string

const (
	TierMinor     EnchantTier = "minor"
	TierModerate  EnchantTier = "moderate"
	TierMajor     EnchantTier = "major"
	TierLegendary EnchantTier = "legendary"
)

// enchantPools holds the fixed per-tier enchantment tables. Effects are
// additive bonuses, never scaled by rarity or level.
var enchantPools = map[EnchantTier][]domain.Enchantment{
	TierMinor: {
		{Name: "Minor Attack Boost", Effect: map[domain.Stat]float64{domain.StatAttack: 2}},
		{Name: "Minor Defense Boost", Effect: map[domain.Stat]float64{domain.StatDefense: 1}},
		{Name: "Minor Speed Boost", Effect: map[domain.Stat]float64{domain.StatSpeed: 1}},
	},
	TierModerate: {
		{Name: "Attack Boost", Effect: map[domain.Stat]float64{domain.StatAttack: 5}},
		{Name: "Defense Boost", Effect: map[domain.Stat]float64{domain.StatDefense: 3}},
		{Name: "Critical Boost", Effect: map[domain.Stat]float64{domain.StatCritRate: 0.05}},
	},
	TierMajor: {
		{Name: "Greater Attack Boost", Effect: map[domain.Stat]float64{domain.StatAttack: 10}},
		{Name: "Greater Defense Boost", Effect: map[domain.Stat]float64{domain.StatDefense: 7}},
		{Name: "Life Steal", Effect: map[domain.Stat]float64{domain.StatLifeSteal: 0.1}},
	},
	TierLegendary: {
		{Name: "All Stats Boost", Effect: map[domain.Stat]float64{
			domain.StatAttack: 8, domain.StatDefense: 5, domain.StatSpeed: 3, domain.StatLuck: 2,
		}},
		{Name: "Damage Reflect", Effect: map[domain.Stat]float64{domain.StatDamageReflect: 0.2}},
		{Name: "Damage Absorb", Effect: map[domain.Stat]float64{domain.StatDamageAbsorb: 0.15}},
	},
}

// randomEnchantment picks a uniform enchantment from the tier's pool.
// Unknown tiers fall back to the minor pool.
func randomEnchantment(tier EnchantTier, roll float64) domain.Enchantment {
	pool, ok := enchantPools[tier]
	if !ok {
		pool = enchantPools[TierMinor]
	}
	idx := int(roll * float64(len(pool)))
	if idx >= len(pool) {
		idx = len(pool) - 1
	}
	return pool[idx]
}
