package crafting

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/resource"
	"github.com/kiln-games/depthforge/internal/utils"
)

// Book holds a player's recipes and crafting progression. Crafting consumes
// ledger resources atomically: the requirement check happens before any
// withdrawal, so a failed craft never leaves a partial spend.
type Book struct {
	recipes []*domain.Recipe
	byID    map[string]*domain.Recipe

	craftingLevel int
	craftingExp   int

	rnd   func() float64
	newID func() string
}

// NewBook creates a book over the given recipes at crafting level 1.
func NewBook(recipes []domain.Recipe) *Book {
	b := &Book{
		recipes:       make([]*domain.Recipe, 0, len(recipes)),
		byID:          make(map[string]*domain.Recipe, len(recipes)),
		craftingLevel: 1,
		rnd:           utils.RandomFloat,
		newID:         uuid.NewString,
	}
	for i := range recipes {
		r := recipes[i]
		b.recipes = append(b.recipes, &r)
		b.byID[r.ID] = &r
	}
	return b
}

// CraftingLevel returns the current crafting level.
func (b *Book) CraftingLevel() int { return b.craftingLevel }

// CraftingExp returns the experience accumulated toward the next level.
func (b *Book) CraftingExp() int { return b.craftingExp }

// Recipe returns the recipe with the given id, locked or not.
func (b *Book) Recipe(id string) (*domain.Recipe, bool) {
	r, ok := b.byID[id]
	return r, ok
}

// Recipes returns every unlocked recipe in book order.
func (b *Book) Recipes() []*domain.Recipe {
	var out []*domain.Recipe
	for _, r := range b.recipes {
		if r.Unlocked {
			out = append(out, r)
		}
	}
	return out
}

// RecipesByType returns the unlocked recipes of one type.
func (b *Book) RecipesByType(t domain.RecipeType) []*domain.Recipe {
	var out []*domain.Recipe
	for _, r := range b.recipes {
		if r.Unlocked && r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// Unlock marks a recipe as craftable.
func (b *Book) Unlock(id string) error {
	r, ok := b.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, id)
	}
	r.Unlocked = true
	return nil
}

// CanCraft reports whether the ledger satisfies every requirement of the
// recipe.
func (b *Book) CanCraft(id string, ledger *resource.Ledger) bool {
	r, ok := b.byID[id]
	if !ok || !r.Unlocked {
		return false
	}
	return len(missingResources(r, ledger)) == 0
}

// MissingResources returns the per-bucket shortfall for a recipe. Empty
// when the recipe is craftable.
func (b *Book) MissingResources(id string, ledger *resource.Ledger) map[domain.ResourceType]map[domain.Rarity]int {
	r, ok := b.byID[id]
	if !ok {
		return nil
	}
	return missingResources(r, ledger)
}

func missingResources(r *domain.Recipe, ledger *resource.Ledger) map[domain.ResourceType]map[domain.Rarity]int {
	missing := make(map[domain.ResourceType]map[domain.Rarity]int)
	for resType, byRarity := range r.Requirements {
		for rarity, required := range byRarity {
			have := ledger.Count(resType, rarity)
			if have < required {
				if missing[resType] == nil {
					missing[resType] = make(map[domain.Rarity]int)
				}
				missing[resType][rarity] = required - have
			}
		}
	}
	return missing
}

// CraftResult reports a successful craft.
type CraftResult struct {
	Item      *domain.Item   `json:"item"`
	Quality   domain.Quality `json:"quality"`
	Exp       int            `json:"exp"`
	LeveledUp bool           `json:"leveled_up"`
}

// Craft consumes the recipe's resources from the ledger, rolls a quality
// tier and produces the output item. Experience is awarded per recipe type
// and may raise the crafting level, at most once per call.
func (b *Book) Craft(id string, ledger *resource.Ledger) (*CraftResult, error) {
	r, ok := b.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, id)
	}
	if !r.Unlocked {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeLocked, id)
	}

	if missing := missingResources(r, ledger); len(missing) > 0 {
		return nil, &domain.InsufficientResourcesError{Missing: missing}
	}

	for resType, byRarity := range r.Requirements {
		for rarity, required := range byRarity {
			if err := ledger.Remove(resType, rarity, required); err != nil {
				return nil, err
			}
		}
	}

	quality := b.rollQuality()
	item := b.buildItem(r, quality)

	exp := craftExpFor(r.Type)
	leveledUp := b.addExp(exp)

	return &CraftResult{
		Item:      item,
		Quality:   quality,
		Exp:       exp,
		LeveledUp: leveledUp,
	}, nil
}

// rollQuality draws a quality tier. Rarer tiers are checked first; every
// threshold rises with crafting level.
func (b *Book) rollQuality() domain.Quality {
	roll := b.rnd()
	bonus := float64(b.craftingLevel) * QualityLevelBonusRate

	switch {
	case roll < MasterworkBase+bonus*3:
		return domain.QualityMasterwork
	case roll < SuperiorBase+bonus*2:
		return domain.QualitySuperior
	case roll < FineBase+bonus:
		return domain.QualityFine
	default:
		return domain.QualityNormal
	}
}

// buildItem materializes a recipe output at the rolled quality. Weapon,
// armor and consumable magnitudes scale with the quality multiplier; food
// values are served as-is.
func (b *Book) buildItem(r *domain.Recipe, quality domain.Quality) *domain.Item {
	mult := quality.Multiplier()
	out := r.Output

	item := &domain.Item{
		ID:          b.newID(),
		TemplateKey: r.ID,
		DisplayName: quality.DisplayPrefix() + out.Name,
		Type:        out.ItemType,
		Subtype:     out.Subtype,
		Rarity:      quality.ToRarity(),
		Quality:     quality,
		Level:       1,
		Effects:     make(map[domain.Stat]float64),
	}

	switch out.ItemType {
	case domain.ItemTypeWeapon:
		item.Effects[domain.StatDamage] = math.Floor(float64(out.BaseDamage) * mult)
		if out.MagicBonus > 0 {
			item.Effects[domain.StatMagicBonus] = math.Floor(float64(out.MagicBonus) * mult)
		}
	case domain.ItemTypeArmor:
		item.Effects[domain.StatDefense] = math.Floor(float64(out.Defense) * mult)
	case domain.ItemTypeConsumable:
		if out.Effect != "" {
			item.Effects[domain.Stat(out.Effect)] = math.Floor(float64(out.Power) * mult)
		}
		if out.Duration > 0 {
			item.Effects[domain.StatDuration] = float64(out.Duration)
		}
	case domain.ItemTypeFood:
		item.Effects[domain.StatHunger] = float64(out.Hunger)
		item.Effects[domain.StatStamina] = float64(out.Stamina)
		if out.HP > 0 {
			item.Effects[domain.StatHP] = float64(out.HP)
		}
		if out.BuffStrength > 0 {
			item.Effects[domain.StatBuffStrength] = float64(out.BuffStrength)
			item.Effects[domain.StatDuration] = float64(out.Duration)
		}
	}

	return item
}

func craftExpFor(t domain.RecipeType) int {
	if exp, ok := craftExp[t]; ok {
		return exp
	}
	return DefaultCraftExp
}

// addExp accumulates crafting experience, raising the level at most once.
func (b *Book) addExp(exp int) bool {
	b.craftingExp += exp
	required := b.craftingLevel * LevelThresholdStep
	if b.craftingExp >= required {
		b.craftingExp -= required
		b.craftingLevel++
		return true
	}
	return false
}

// Snapshot is the serializable crafting progression.
type Snapshot struct {
	CraftingLevel   int       `json:"crafting_level"`
	CraftingExp     int       `json:"crafting_exp"`
	UnlockedRecipes []string  `json:"unlocked_recipes"`
	Timestamp       time.Time `json:"timestamp"`
}

// Export captures the crafting progression for persistence. Recipe
// definitions themselves come from configuration, only unlock state is
// saved.
func (b *Book) Export() *Snapshot {
	snapshot := &Snapshot{
		CraftingLevel: b.craftingLevel,
		CraftingExp:   b.craftingExp,
		Timestamp:     time.Now(),
	}
	for _, r := range b.recipes {
		if r.Unlocked {
			snapshot.UnlockedRecipes = append(snapshot.UnlockedRecipes, r.ID)
		}
	}
	return snapshot
}

// Import restores crafting progression from a snapshot.
func (b *Book) Import(snapshot *Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}

	b.craftingLevel = snapshot.CraftingLevel
	if b.craftingLevel < 1 {
		b.craftingLevel = 1
	}
	b.craftingExp = snapshot.CraftingExp
	if b.craftingExp < 0 {
		b.craftingExp = 0
	}

	unlocked := make(map[string]bool, len(snapshot.UnlockedRecipes))
	for _, id := range snapshot.UnlockedRecipes {
		unlocked[id] = true
	}
	for _, r := range b.recipes {
		r.Unlocked = unlocked[r.ID]
	}
	return nil
}
