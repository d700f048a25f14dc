package equipment

import "github.com/kiln-games/depthforge/internal/domain"

// SlotName identifies one of the six fixed equipment slots.
type SlotName string

const (
	SlotWeapon     SlotName = "weapon"
	SlotArmor      SlotName = "armor"
	SlotShield     SlotName = "shield"
	SlotBoots      SlotName = "boots"
	SlotAccessory1 SlotName = "accessory1"
	SlotAccessory2 SlotName = "accessory2"
)

// SlotNames lists the slots in board order. Auto-equip walks them in this
// order.
var SlotNames = []SlotName{
	SlotWeapon, SlotArmor, SlotShield, SlotBoots, SlotAccessory1, SlotAccessory2,
}

// slotTypes maps each slot to its accepted item types.
var slotTypes = map[SlotName][]domain.ItemType{
	SlotWeapon:     {domain.ItemTypeWeapon},
	SlotArmor:      {domain.ItemTypeArmor},
	SlotShield:     {domain.ItemTypeArmor},
	SlotBoots:      {domain.ItemTypeArmor},
	SlotAccessory1: {domain.ItemTypeAccessory},
	SlotAccessory2: {domain.ItemTypeAccessory},
}

// slotSubtypes maps each slot to its accepted item subtypes. A slot accepts
// an item only when both its type and subtype match.
var slotSubtypes = map[SlotName][]string{
	SlotWeapon:     {"melee", "ranged", "heavy"},
	SlotArmor:      {"body"},
	SlotShield:     {"shield"},
	SlotBoots:      {"boots"},
	SlotAccessory1: {"charm", "ring"},
	SlotAccessory2: {"charm", "ring"},
}

// Valid reports whether s is one of the six board slots.
func (s SlotName) Valid() bool {
	_, ok := slotTypes[s]
	return ok
}
