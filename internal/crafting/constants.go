package crafting

import "github.com/kiln-games/depthforge/internal/domain"

// Quality roll bases. Each tier's threshold grows with crafting level;
// tiers are checked rarest first so a single roll lands in exactly one
// band.
const (
	MasterworkBase = 0.02
	SuperiorBase   = 0.1
	FineBase       = 0.4

	// QualityLevelBonusRate converts crafting level into threshold bonus.
	// Masterwork grows at triple rate, superior at double, fine at single.
	QualityLevelBonusRate = 0.01
)

// LevelThresholdStep sets the experience needed for the next crafting
// level: craftingLevel * LevelThresholdStep.
const LevelThresholdStep = 100

// craftExp is the flat experience award per recipe type.
var craftExp = map[domain.RecipeType]int{
	domain.RecipeTypeWeapon:     50,
	domain.RecipeTypeArmor:      40,
	domain.RecipeTypeConsumable: 20,
	domain.RecipeTypeFood:       15,
}

// DefaultCraftExp is awarded for recipe types outside the table.
const DefaultCraftExp = 10
