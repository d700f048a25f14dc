package domain

// ResourceType identifies a harvestable resource family.
type ResourceType string

const (
	ResourceWood    ResourceType = "wood"
	ResourceOre     ResourceType = "ore"
	ResourceHerb    ResourceType = "herb"
	ResourceCrystal ResourceType = "crystal"
	ResourceFood    ResourceType = "food"
)

// ResourceTypes lists all resource families.
var ResourceTypes = []ResourceType{
	ResourceWood, ResourceOre, ResourceHerb, ResourceCrystal, ResourceFood,
}

// Valid reports whether t is a known resource family.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceWood, ResourceOre, ResourceHerb, ResourceCrystal, ResourceFood:
		return true
	default:
		return false
	}
}

// ResourceRarities lists the rarities resources come in. Unlike items,
// resources have no uncommon tier.
var ResourceRarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// Position is a 2D world coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dimensions describes a floor's harvestable area.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// HarvestResult reports a successful node harvest.
type HarvestResult struct {
	NodeID      string       `json:"node_id"`
	Type        ResourceType `json:"type"`
	Rarity      Rarity       `json:"rarity"`
	Amount      int          `json:"amount"`
	StaminaCost int          `json:"stamina_cost"`
}

// RecipeType categorizes recipes for experience awards and listings.
type RecipeType string

const (
	RecipeTypeWeapon     RecipeType = "weapon"
	RecipeTypeArmor      RecipeType = "armor"
	RecipeTypeConsumable RecipeType = "consumable"
	RecipeTypeFood       RecipeType = "food"
	RecipeTypeSpecial    RecipeType = "special"
)

// RecipeOutput describes the item a recipe produces. Numeric fields are
// scaled by the rolled quality multiplier at craft time.
type RecipeOutput struct {
	ItemType     ItemType `json:"item_type"`
	Subtype      string   `json:"subtype,omitempty"`
	Name         string   `json:"name"`
	BaseDamage   int      `json:"base_damage,omitempty"`
	MagicBonus   int      `json:"magic_bonus,omitempty"`
	Defense      int      `json:"defense,omitempty"`
	Effect       string   `json:"effect,omitempty"`
	Power        int      `json:"power,omitempty"`
	Duration     int      `json:"duration,omitempty"`
	Hunger       int      `json:"hunger,omitempty"`
	Stamina      int      `json:"stamina,omitempty"`
	HP           int      `json:"hp,omitempty"`
	BuffStrength int      `json:"buff_strength,omitempty"`
}

// Recipe maps resource costs to an item output.
// Requirements is resource type -> rarity -> required count.
type Recipe struct {
	ID           string                          `json:"id"`
	Name         string                          `json:"name"`
	Type         RecipeType                      `json:"type"`
	Requirements map[ResourceType]map[Rarity]int `json:"requirements"`
	Output       RecipeOutput                    `json:"output"`
	Unlocked     bool                            `json:"unlocked"`
}
