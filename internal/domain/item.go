package domain

// Rarity is the five-tier scale applied to generated items. It scales price
// and effects multiplicatively and controls enchantment grants.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarities lists all rarities in ascending order.
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}

// Order returns the rarity's position on the ascending scale (common=0).
// Unknown rarities sort below common.
func (r Rarity) Order() int {
	switch r {
	case RarityCommon:
		return 0
	case RarityUncommon:
		return 1
	case RarityRare:
		return 2
	case RarityEpic:
		return 3
	case RarityLegendary:
		return 4
	default:
		return -1
	}
}

// Multiplier returns the price/effect scaling factor for the rarity.
func (r Rarity) Multiplier() float64 {
	switch r {
	case RarityUncommon:
		return 1.3
	case RarityRare:
		return 1.7
	case RarityEpic:
		return 2.5
	case RarityLegendary:
		return 4
	default:
		return 1
	}
}

// DisplayPrefix returns the name decoration for the rarity tier.
func (r Rarity) DisplayPrefix() string {
	switch r {
	case RarityUncommon:
		return "Fine "
	case RarityRare:
		return "Rare "
	case RarityEpic:
		return "Epic "
	case RarityLegendary:
		return "Legendary "
	default:
		return ""
	}
}

// Color returns the hex color used by UI layers to tint item names.
func (r Rarity) Color() string {
	switch r {
	case RarityUncommon:
		return "#1eff00"
	case RarityRare:
		return "#0070dd"
	case RarityEpic:
		return "#a335ee"
	case RarityLegendary:
		return "#ff8000"
	default:
		return "#ffffff"
	}
}

// Valid reports whether r is one of the five known rarities.
func (r Rarity) Valid() bool {
	return r.Order() >= 0
}

// ItemType is the top-level item category. Subtypes are free-form tags
// interpreted by equipment slot rules.
type ItemType string

const (
	ItemTypeWeapon     ItemType = "weapon"
	ItemTypeArmor      ItemType = "armor"
	ItemTypeAccessory  ItemType = "accessory"
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeMaterial   ItemType = "material"
	ItemTypeFood       ItemType = "food"
)

// Valid reports whether t is a known item category.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeWeapon, ItemTypeArmor, ItemTypeAccessory, ItemTypeConsumable, ItemTypeMaterial, ItemTypeFood:
		return true
	default:
		return false
	}
}

// ItemTemplate is an immutable item archetype from the catalog.
type ItemTemplate struct {
	Key         string           `json:"key"`
	DisplayName string           `json:"display_name"`
	Type        ItemType         `json:"type"`
	Subtype     string           `json:"subtype"`
	BaseEffect  map[Stat]float64 `json:"base_effect"`
	Description string           `json:"description"`
	BasePrice   int              `json:"base_price"`
	Stackable   bool             `json:"stackable"`
	SetName     string           `json:"set_name,omitempty"`
}

// Enchantment is an additive stat bonus bundle granted at item creation.
// Its effects are independent of the item's scaled base effects.
type Enchantment struct {
	Name   string           `json:"name"`
	Effect map[Stat]float64 `json:"effect"`
}

// Item is a concrete, mutable item instance produced by the factory or the
// recipe book. Two stackable items may merge only when TemplateKey, Rarity
// and UpgradeLevel all match.
type Item struct {
	ID           string           `json:"id"`
	TemplateKey  string           `json:"template_key"`
	DisplayName  string           `json:"display_name"`
	Type         ItemType         `json:"type"`
	Subtype      string           `json:"subtype"`
	Rarity       Rarity           `json:"rarity"`
	Quality      Quality          `json:"quality,omitempty"` // set only on crafted items
	Level        int              `json:"level"`
	Description  string           `json:"description,omitempty"`
	Price        int              `json:"price"`
	Stackable    bool             `json:"stackable"`
	Quantity     int              `json:"quantity,omitempty"` // >=1 when stackable
	Effects      map[Stat]float64 `json:"effects"`
	Enchantments []Enchantment    `json:"enchantments,omitempty"`
	UpgradeLevel int              `json:"upgrade_level"`
	SetName      string           `json:"set_name,omitempty"`
}

// Units returns the number of units the record represents: the stack
// quantity for stackable items, 1 otherwise.
func (it *Item) Units() int {
	if it.Stackable {
		return it.Quantity
	}
	return 1
}

// CanStackWith reports whether incoming may merge into it. Both records must
// be stackable and share template key, rarity and upgrade level.
func (it *Item) CanStackWith(incoming *Item) bool {
	return it.Stackable && incoming.Stackable &&
		it.TemplateKey == incoming.TemplateKey &&
		it.Rarity == incoming.Rarity &&
		it.UpgradeLevel == incoming.UpgradeLevel
}
