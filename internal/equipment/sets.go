package equipment

import "github.com/kiln-games/depthforge/internal/domain"

// SetDefinition maps piece-count thresholds to bonus stat bundles.
// Thresholds at or below the equipped piece count contribute cumulatively.
type SetDefinition map[int]map[domain.Stat]float64

// setBonusThresholds lists the piece counts at which a set grants a tier.
var setBonusThresholds = []int{2, 4, 6}

// DefaultSets returns the built-in equipment set definitions.
func DefaultSets() map[string]SetDefinition {
	return map[string]SetDefinition{
		"warrior_set": {
			2: {domain.StatAttack: 5, domain.StatDefense: 3},
			4: {domain.StatAttack: 12, domain.StatDefense: 8, domain.StatCritRate: 0.1},
			6: {domain.StatAttack: 25, domain.StatDefense: 20, domain.StatCritRate: 0.2, domain.StatDamageReflect: 0.1},
		},
		"guardian_set": {
			2: {domain.StatDefense: 8, domain.StatHealth: 30},
			4: {domain.StatDefense: 18, domain.StatHealth: 70, domain.StatAbsorb: 0.05},
			6: {domain.StatDefense: 40, domain.StatHealth: 150, domain.StatAbsorb: 0.15, domain.StatDamageAbsorb: 0.1},
		},
		"explorer_set": {
			2: {domain.StatSpeed: 3, domain.StatLuck: 2},
			4: {domain.StatSpeed: 8, domain.StatLuck: 5, domain.StatItemDropRate: 0.1},
			6: {domain.StatSpeed: 15, domain.StatLuck: 12, domain.StatItemDropRate: 0.25, domain.StatExpBonus: 0.2},
		},
	}
}

// cumulativeSetBonus sums the bonus tiers unlocked by pieceCount. Returns
// nil when no tier is reached.
func cumulativeSetBonus(def SetDefinition, pieceCount int) map[domain.Stat]float64 {
	var total map[domain.Stat]float64
	for _, threshold := range setBonusThresholds {
		if pieceCount < threshold {
			break
		}
		tier, ok := def[threshold]
		if !ok {
			continue
		}
		if total == nil {
			total = make(map[domain.Stat]float64)
		}
		for stat, value := range tier {
			total[stat] += value
		}
	}
	return total
}
