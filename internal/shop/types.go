package shop

import "github.com/kiln-games/depthforge/internal/domain"

// RarityWeight is one band of a shop's weighted rarity table. Order
// matters: selection is a cumulative draw over the listed bands.
type RarityWeight struct {
	Rarity domain.Rarity
	Weight int
}

// TypeDef describes one shop archetype: what it stocks, at what levels,
// and how its rarity rolls skew.
type TypeDef struct {
	Name          string
	ItemTypes     []domain.ItemType
	LevelRange    [2]int
	RarityWeights []RarityWeight
}

// shopTypes holds the built-in shop archetypes.
var shopTypes = map[string]TypeDef{
	"general": {
		Name:       "General Store",
		ItemTypes:  []domain.ItemType{domain.ItemTypeConsumable, domain.ItemTypeMaterial},
		LevelRange: [2]int{1, 3},
		RarityWeights: []RarityWeight{
			{domain.RarityCommon, 70}, {domain.RarityUncommon, 25}, {domain.RarityRare, 5},
		},
	},
	"weapon": {
		Name:       "Weaponsmith",
		ItemTypes:  []domain.ItemType{domain.ItemTypeWeapon},
		LevelRange: [2]int{1, 5},
		RarityWeights: []RarityWeight{
			{domain.RarityCommon, 50}, {domain.RarityUncommon, 30}, {domain.RarityRare, 15}, {domain.RarityEpic, 5},
		},
	},
	"armor": {
		Name:       "Armorer",
		ItemTypes:  []domain.ItemType{domain.ItemTypeArmor},
		LevelRange: [2]int{1, 5},
		RarityWeights: []RarityWeight{
			{domain.RarityCommon, 50}, {domain.RarityUncommon, 30}, {domain.RarityRare, 15}, {domain.RarityEpic, 5},
		},
	},
	"luxury": {
		Name:       "Premium Emporium",
		ItemTypes:  []domain.ItemType{domain.ItemTypeAccessory, domain.ItemTypeWeapon, domain.ItemTypeArmor},
		LevelRange: [2]int{3, 10},
		RarityWeights: []RarityWeight{
			{domain.RarityUncommon, 30}, {domain.RarityRare, 40}, {domain.RarityEpic, 25}, {domain.RarityLegendary, 5},
		},
	},
}

// shopTypeOrder fixes the listing order of archetypes.
var shopTypeOrder = []string{"general", "weapon", "armor", "luxury"}

// specialListing is one entry of the special-stock table.
type specialListing struct {
	templateKey string
	rarity      domain.Rarity
}

// specialListings is the pool a special item is drawn from.
var specialListings = []specialListing{
	{"rare_ore", domain.RarityRare},
	{"upgrade_crystal", domain.RarityUncommon},
	{"exp_ring", domain.RarityRare},
}

// reputationTier gates a discount level at a reputation threshold.
type reputationTier struct {
	threshold int
	discount  float64
	name      string
}

// reputationTiers lists the discount gates in ascending order.
var reputationTiers = []reputationTier{
	{1000, 0.05, "Bronze"},
	{2500, 0.10, "Silver"},
	{5000, 0.15, "Gold"},
	{10000, 0.20, "Diamond"},
}
