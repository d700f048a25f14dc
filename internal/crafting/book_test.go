package crafting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/resource"
)

func testRecipes() []domain.Recipe {
	return []domain.Recipe{
		{
			ID:   "wooden_sword",
			Name: "Wooden Sword",
			Type: domain.RecipeTypeWeapon,
			Requirements: map[domain.ResourceType]map[domain.Rarity]int{
				domain.ResourceWood: {domain.RarityCommon: 10},
			},
			Output: domain.RecipeOutput{
				ItemType:   domain.ItemTypeWeapon,
				Subtype:    "sword",
				Name:       "Wooden Sword",
				BaseDamage: 15,
			},
			Unlocked: true,
		},
		{
			ID:   "iron_sword",
			Name: "Iron Sword",
			Type: domain.RecipeTypeWeapon,
			Requirements: map[domain.ResourceType]map[domain.Rarity]int{
				domain.ResourceWood: {domain.RarityCommon: 5},
				domain.ResourceOre:  {domain.RarityCommon: 15},
			},
			Output: domain.RecipeOutput{
				ItemType:   domain.ItemTypeWeapon,
				Subtype:    "sword",
				Name:       "Iron Sword",
				BaseDamage: 25,
			},
			Unlocked: true,
		},
		{
			ID:   "health_potion",
			Name: "Health Potion",
			Type: domain.RecipeTypeConsumable,
			Requirements: map[domain.ResourceType]map[domain.Rarity]int{
				domain.ResourceHerb: {domain.RarityCommon: 3},
			},
			Output: domain.RecipeOutput{
				ItemType: domain.ItemTypeConsumable,
				Name:     "Health Potion",
				Effect:   "heal",
				Power:    50,
			},
			Unlocked: true,
		},
		{
			ID:   "hearty_meal",
			Name: "Hearty Meal",
			Type: domain.RecipeTypeFood,
			Requirements: map[domain.ResourceType]map[domain.Rarity]int{
				domain.ResourceFood: {domain.RarityRare: 3},
				domain.ResourceHerb: {domain.RarityCommon: 2},
			},
			Output: domain.RecipeOutput{
				ItemType: domain.ItemTypeFood,
				Name:     "Hearty Meal",
				Hunger:   50,
				Stamina:  40,
				HP:       30,
			},
			Unlocked: true,
		},
		{
			ID:   "crystal_staff",
			Name: "Crystal Staff",
			Type: domain.RecipeTypeWeapon,
			Requirements: map[domain.ResourceType]map[domain.Rarity]int{
				domain.ResourceWood:    {domain.RarityRare: 10},
				domain.ResourceCrystal: {domain.RarityRare: 15},
			},
			Output: domain.RecipeOutput{
				ItemType:   domain.ItemTypeWeapon,
				Subtype:    "staff",
				Name:       "Crystal Staff",
				BaseDamage: 35,
				MagicBonus: 20,
			},
			Unlocked: false,
		},
	}
}

func newTestBook(roll float64) *Book {
	b := NewBook(testRecipes())
	b.rnd = func() float64 { return roll }
	counter := 0
	b.newID = func() string {
		counter++
		return "crafted-" + string(rune('a'+counter-1))
	}
	return b
}

func stockLedger(t *testing.T, pairs map[domain.ResourceType]map[domain.Rarity]int) *resource.Ledger {
	t.Helper()
	ledger := resource.NewLedger()
	for resType, byRarity := range pairs {
		for rarity, count := range byRarity {
			require.NoError(t, ledger.Add(resType, rarity, count))
		}
	}
	return ledger
}

func TestCanCraft(t *testing.T) {
	b := newTestBook(0.99)

	ledger := stockLedger(t, map[domain.ResourceType]map[domain.Rarity]int{
		domain.ResourceWood: {domain.RarityCommon: 10},
	})

	assert.True(t, b.CanCraft("wooden_sword", ledger))
	assert.False(t, b.CanCraft("iron_sword", ledger))
	assert.False(t, b.CanCraft("crystal_staff", ledger)) // locked
	assert.False(t, b.CanCraft("unknown", ledger))
}

func TestCraft(t *testing.T) {
	t.Run("consumes resources and produces the output item", func(t *testing.T) {
		b := newTestBook(0.99) // normal quality
		ledger := stockLedger(t, map[domain.ResourceType]map[domain.Rarity]int{
			domain.ResourceWood: {domain.RarityCommon: 12},
		})

		result, err := b.Craft("wooden_sword", ledger)
		require.NoError(t, err)

		assert.Equal(t, domain.QualityNormal, result.Quality)
		assert.Equal(t, "Wooden Sword", result.Item.DisplayName)
		assert.Equal(t, "wooden_sword", result.Item.TemplateKey)
		assert.Equal(t, domain.RarityCommon, result.Item.Rarity)
		assert.Equal(t, float64(15), result.Item.Effects[domain.StatDamage])
		assert.Equal(t, 50, result.Exp)

		assert.Equal(t, 2, ledger.Count(domain.ResourceWood, domain.RarityCommon))
	})

	t.Run("unknown recipe fails", func(t *testing.T) {
		b := newTestBook(0.99)
		ledger := resource.NewLedger()

		_, err := b.Craft("excalibur", ledger)
		assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	})

	t.Run("locked recipe fails", func(t *testing.T) {
		b := newTestBook(0.99)
		ledger := stockLedger(t, map[domain.ResourceType]map[domain.Rarity]int{
			domain.ResourceWood:    {domain.RarityRare: 10},
			domain.ResourceCrystal: {domain.RarityRare: 15},
		})

		_, err := b.Craft("crystal_staff", ledger)
		assert.ErrorIs(t, err, domain.ErrRecipeLocked)
	})

	t.Run("shortfall reports the missing buckets and spends nothing", func(t *testing.T) {
		b := newTestBook(0.99)
		ledger := stockLedger(t, map[domain.ResourceType]map[domain.Rarity]int{
			domain.ResourceWood: {domain.RarityCommon: 5},
			domain.ResourceOre:  {domain.RarityCommon: 4},
		})

		_, err := b.Craft("iron_sword", ledger)
		assert.ErrorIs(t, err, domain.ErrInsufficientResources)

		var resErr *domain.InsufficientResourcesError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, 11, resErr.Missing[domain.ResourceOre][domain.RarityCommon])
		assert.NotContains(t, resErr.Missing, domain.ResourceWood)

		assert.Equal(t, 5, ledger.Count(domain.ResourceWood, domain.RarityCommon))
		assert.Equal(t, 4, ledger.Count(domain.ResourceOre, domain.RarityCommon))
	})
}

func TestCraftQuality(t *testing.T) {
	ledgerFor := func(t *testing.T) *resource.Ledger {
		return stockLedger(t, map[domain.ResourceType]map[domain.Rarity]int{
			domain.ResourceWood: {domain.RarityCommon: 10},
		})
	}

	t.Run("masterwork band at level 1", func(t *testing.T) {
		// masterwork threshold = 0.02 + 0.01*3 = 0.05
		b := newTestBook(0.04)

		result, err := b.Craft("wooden_sword", ledgerFor(t))
		require.NoError(t, err)

		assert.Equal(t, domain.QualityMasterwork, result.Quality)
		assert.Equal(t, "Masterwork Wooden Sword", result.Item.DisplayName)
		assert.Equal(t, domain.RarityEpic, result.Item.Rarity)
		assert.Equal(t, float64(30), result.Item.Effects[domain.StatDamage])
	})

	t.Run("superior band", func(t *testing.T) {
		// superior threshold = 0.1 + 0.01*2 = 0.12
		b := newTestBook(0.11)

		result, err := b.Craft("wooden_sword", ledgerFor(t))
		require.NoError(t, err)

		assert.Equal(t, domain.QualitySuperior, result.Quality)
		assert.Equal(t, float64(22), result.Item.Effects[domain.StatDamage]) // floor(15*1.5)
	})

	t.Run("fine band", func(t *testing.T) {
		// fine threshold = 0.4 + 0.01 = 0.41
		b := newTestBook(0.4)

		result, err := b.Craft("wooden_sword", ledgerFor(t))
		require.NoError(t, err)

		assert.Equal(t, domain.QualityFine, result.Quality)
		assert.Equal(t, float64(18), result.Item.Effects[domain.StatDamage]) // floor(15*1.2)
	})
}

func TestCraftConsumableAndFood(t *testing.T) {
	t.Run("consumable power scales with quality", func(t *testing.T) {
		b := newTestBook(0.4) // fine
		ledger := stockLedger(t, map[domain.ResourceType]map[domain.Rarity]int{
			domain.ResourceHerb: {domain.RarityCommon: 3},
		})

		result, err := b.Craft("health_potion", ledger)
		require.NoError(t, err)

		assert.Equal(t, float64(60), result.Item.Effects[domain.StatHeal]) // floor(50*1.2)
		assert.Equal(t, 20, result.Exp)
	})

	t.Run("food values are not quality-scaled", func(t *testing.T) {
		b := newTestBook(0.04) // masterwork
		ledger := stockLedger(t, map[domain.ResourceType]map[domain.Rarity]int{
			domain.ResourceFood: {domain.RarityRare: 3},
			domain.ResourceHerb: {domain.RarityCommon: 2},
		})

		result, err := b.Craft("hearty_meal", ledger)
		require.NoError(t, err)

		assert.Equal(t, float64(50), result.Item.Effects[domain.StatHunger])
		assert.Equal(t, float64(40), result.Item.Effects[domain.StatStamina])
		assert.Equal(t, float64(30), result.Item.Effects[domain.StatHP])
		assert.Equal(t, 15, result.Exp)
	})
}

func TestCraftProgression(t *testing.T) {
	b := newTestBook(0.99)

	t.Run("experience accumulates below the threshold", func(t *testing.T) {
		ledger := stockLedger(t, map[domain.ResourceType]map[domain.Rarity]int{
			domain.ResourceWood: {domain.RarityCommon: 10},
		})

		result, err := b.Craft("wooden_sword", ledger)
		require.NoError(t, err)
		assert.False(t, result.LeveledUp)
		assert.Equal(t, 1, b.CraftingLevel())
		assert.Equal(t, 50, b.CraftingExp())
	})

	t.Run("crossing the threshold levels up once", func(t *testing.T) {
		ledger := stockLedger(t, map[domain.ResourceType]map[domain.Rarity]int{
			domain.ResourceWood: {domain.RarityCommon: 10},
		})

		result, err := b.Craft("wooden_sword", ledger)
		require.NoError(t, err)
		assert.True(t, result.LeveledUp)
		assert.Equal(t, 2, b.CraftingLevel())
		assert.Equal(t, 0, b.CraftingExp())
	})
}

func TestUnlock(t *testing.T) {
	b := newTestBook(0.99)

	assert.Len(t, b.Recipes(), 4)
	require.NoError(t, b.Unlock("crystal_staff"))
	assert.Len(t, b.Recipes(), 5)

	assert.ErrorIs(t, b.Unlock("unknown"), domain.ErrRecipeNotFound)
}

func TestRecipesByType(t *testing.T) {
	b := newTestBook(0.99)

	weapons := b.RecipesByType(domain.RecipeTypeWeapon)
	assert.Len(t, weapons, 2) // crystal_staff is locked

	food := b.RecipesByType(domain.RecipeTypeFood)
	require.Len(t, food, 1)
	assert.Equal(t, "hearty_meal", food[0].ID)
}

func TestBookExportImport(t *testing.T) {
	b := newTestBook(0.99)
	require.NoError(t, b.Unlock("crystal_staff"))
	b.craftingLevel = 3
	b.craftingExp = 120

	snapshot := b.Export()
	assert.Len(t, snapshot.UnlockedRecipes, 5)

	restored := newTestBook(0.99)
	require.NoError(t, restored.Import(snapshot))
	assert.Equal(t, 3, restored.CraftingLevel())
	assert.Equal(t, 120, restored.CraftingExp())
	assert.Len(t, restored.Recipes(), 5)

	assert.ErrorIs(t, restored.Import(nil), domain.ErrInvalidInput)
}
