package domain

// Stat is a closed stat identifier. Effects and enchantments are keyed by
// Stat so that aggregation can allow-list the combat vocabulary instead of
// accumulating arbitrary strings.
type Stat string

const (
	StatAttack        Stat = "attack"
	StatDefense       Stat = "defense"
	StatHealth        Stat = "health"
	StatSpeed         Stat = "speed"
	StatLuck          Stat = "luck"
	StatCritRate      Stat = "crit_rate"
	StatLifeSteal     Stat = "life_steal"
	StatDamageReflect Stat = "damage_reflect"
	StatDamageAbsorb  Stat = "damage_absorb"
	StatAbsorb        Stat = "absorb"
	StatExpBonus      Stat = "exp_bonus"
	StatItemDropRate  Stat = "item_drop_rate"

	// Consumable and utility effects. These never contribute to equipment
	// stat totals.
	StatHeal          Stat = "heal"
	StatMana          Stat = "mana"
	StatAttackBoost   Stat = "attack_boost"
	StatSpeedBoost    Stat = "speed_boost"
	StatDuration      Stat = "duration"
	StatSpecialDamage Stat = "special_damage"
	StatUpgradePower  Stat = "upgrade_power"
	StatCraftBonus    Stat = "craft_bonus"

	// Crafted-output magnitudes.
	StatDamage       Stat = "damage"
	StatMagicBonus   Stat = "magic_bonus"
	StatPower        Stat = "power"
	StatHunger       Stat = "hunger"
	StatStamina      Stat = "stamina"
	StatHP           Stat = "hp"
	StatBuffStrength Stat = "buff_strength"
)

// CombatStats is the fixed vocabulary accumulated by equipment stat totals.
// Effects keyed outside this list are deliberately ignored there.
var CombatStats = []Stat{
	StatAttack, StatDefense, StatHealth, StatSpeed, StatLuck,
	StatCritRate, StatLifeSteal, StatDamageReflect, StatDamageAbsorb,
	StatAbsorb, StatExpBonus, StatItemDropRate,
}

// StatMap accumulates stat magnitudes.
type StatMap map[Stat]float64

// AddAllowed adds every entry of effects whose key is in the combat
// vocabulary. Unknown keys are skipped.
func (m StatMap) AddAllowed(effects map[Stat]float64) {
	for _, stat := range CombatStats {
		if v, ok := effects[stat]; ok {
			m[stat] += v
		}
	}
}
