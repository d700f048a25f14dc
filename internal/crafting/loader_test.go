package crafting

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-games/depthforge/internal/domain"
)

func TestRecipeLoader_Load(t *testing.T) {
	loader := NewLoader()

	t.Run("valid JSON file", func(t *testing.T) {
		content := `{
			"version": "1.0",
			"description": "Test recipes",
			"recipes": [
				{
					"id": "test_sword",
					"name": "Test Sword",
					"type": "weapon",
					"requirements": {"wood": {"common": 2}, "ore": {"common": 1}},
					"output": {"item_type": "weapon", "subtype": "melee", "name": "Test Sword", "base_damage": 6}
				},
				{
					"id": "test_potion",
					"name": "Test Potion",
					"type": "consumable",
					"requirements": {"herb": {"common": 2}},
					"output": {"item_type": "consumable", "name": "Test Potion", "effect": "heal", "power": 20},
					"locked": true
				}
			]
		}`
		tmpFile := createRecipeTempFile(t, content)
		defer os.Remove(tmpFile)

		config, err := loader.Load(tmpFile)
		require.NoError(t, err)
		assert.Equal(t, "1.0", config.Version)
		assert.Len(t, config.Recipes, 2)
		assert.Equal(t, "test_sword", config.Recipes[0].ID)
		assert.Equal(t, 2, config.Recipes[0].Requirements["wood"]["common"])
		assert.True(t, config.Recipes[1].Locked)
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := loader.Load("/nonexistent/recipes.json")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("schema rejects unknown resource type", func(t *testing.T) {
		content := `{
			"version": "1.0",
			"recipes": [
				{
					"id": "bad",
					"name": "Bad",
					"type": "weapon",
					"requirements": {"mithril": {"common": 1}},
					"output": {"item_type": "weapon", "name": "Bad"}
				}
			]
		}`
		tmpFile := createRecipeTempFile(t, content)
		defer os.Remove(tmpFile)

		_, err := loader.Load(tmpFile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation failed")
	})

	t.Run("schema rejects uncommon resource rarity", func(t *testing.T) {
		content := `{
			"version": "1.0",
			"recipes": [
				{
					"id": "bad",
					"name": "Bad",
					"type": "weapon",
					"requirements": {"wood": {"uncommon": 1}},
					"output": {"item_type": "weapon", "name": "Bad"}
				}
			]
		}`
		tmpFile := createRecipeTempFile(t, content)
		defer os.Remove(tmpFile)

		_, err := loader.Load(tmpFile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation failed")
	})
}

func TestRecipeLoader_BuildRecipes(t *testing.T) {
	loader := NewLoader()

	validDef := func(id string) Def {
		return Def{
			ID:           id,
			Name:         "Recipe " + id,
			Type:         "weapon",
			Requirements: map[string]map[string]int{"wood": {"common": 2}},
			Output:       OutputDef{ItemType: "weapon", Subtype: "melee", Name: "Output " + id, BaseDamage: 5},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		config := &Config{Version: "1.0", Recipes: []Def{validDef("sword"), validDef("axe")}}

		recipes, err := loader.BuildRecipes(config)
		require.NoError(t, err)
		require.Len(t, recipes, 2)
		assert.Equal(t, "sword", recipes[0].ID)
		assert.Equal(t, domain.RecipeTypeWeapon, recipes[0].Type)
		assert.Equal(t, 2, recipes[0].Requirements[domain.ResourceWood][domain.RarityCommon])
		assert.True(t, recipes[0].Unlocked)
	})

	t.Run("locked recipe starts locked", func(t *testing.T) {
		def := validDef("locked_sword")
		def.Locked = true
		config := &Config{Version: "1.0", Recipes: []Def{def}}

		recipes, err := loader.BuildRecipes(config)
		require.NoError(t, err)
		assert.False(t, recipes[0].Unlocked)
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := loader.BuildRecipes(nil)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("empty recipes", func(t *testing.T) {
		_, err := loader.BuildRecipes(&Config{Version: "1.0"})
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("empty id", func(t *testing.T) {
		def := validDef("")
		config := &Config{Version: "1.0", Recipes: []Def{def}}
		_, err := loader.BuildRecipes(config)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("duplicate id", func(t *testing.T) {
		config := &Config{Version: "1.0", Recipes: []Def{validDef("dupe"), validDef("dupe")}}
		_, err := loader.BuildRecipes(config)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
		assert.Contains(t, err.Error(), "dupe")
	})

	t.Run("unknown output item type", func(t *testing.T) {
		def := validDef("bad")
		def.Output.ItemType = "vehicle"
		config := &Config{Version: "1.0", Recipes: []Def{def}}
		_, err := loader.BuildRecipes(config)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
		assert.Contains(t, err.Error(), "vehicle")
	})

	t.Run("missing requirements", func(t *testing.T) {
		def := validDef("bad")
		def.Requirements = nil
		config := &Config{Version: "1.0", Recipes: []Def{def}}
		_, err := loader.BuildRecipes(config)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("unknown resource type", func(t *testing.T) {
		def := validDef("bad")
		def.Requirements = map[string]map[string]int{"mithril": {"common": 1}}
		config := &Config{Version: "1.0", Recipes: []Def{def}}
		_, err := loader.BuildRecipes(config)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
		assert.Contains(t, err.Error(), "mithril")
	})

	t.Run("non-positive requirement", func(t *testing.T) {
		def := validDef("bad")
		def.Requirements = map[string]map[string]int{"wood": {"common": 0}}
		config := &Config{Version: "1.0", Recipes: []Def{def}}
		_, err := loader.BuildRecipes(config)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})
}

func TestRecipeLoader_LoadActualConfig(t *testing.T) {
	loader := NewLoader()

	configPath := filepath.Join("..", "..", "configs", "recipes.json")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Skip("recipes.json not found, skipping")
	}

	config, err := loader.Load(configPath)
	require.NoError(t, err, "Should load actual config file")

	recipes, err := loader.BuildRecipes(config)
	require.NoError(t, err, "Actual config should build recipes")
	assert.NotEmpty(t, recipes)

	byID := make(map[string]domain.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	expected := []string{"wooden_sword", "iron_sword", "health_potion", "simple_meal"}
	for _, id := range expected {
		_, ok := byID[id]
		assert.True(t, ok, "Expected recipe '%s' to exist", id)
	}

	// Every shipped recipe starts unlocked; Unlock only matters for
	// recipes relocked through an imported snapshot.
	for _, r := range recipes {
		assert.True(t, r.Unlocked, "Expected recipe '%s' to start unlocked", r.ID)
	}

	if wooden, ok := byID["wooden_sword"]; assert.True(t, ok) {
		assert.Equal(t, 10, wooden.Requirements[domain.ResourceWood][domain.RarityCommon])
		assert.Equal(t, 15, wooden.Output.BaseDamage)
	}
	if iron, ok := byID["iron_sword"]; assert.True(t, ok) {
		assert.Equal(t, 5, iron.Requirements[domain.ResourceWood][domain.RarityCommon])
		assert.Equal(t, 15, iron.Requirements[domain.ResourceOre][domain.RarityCommon])
		assert.Equal(t, 25, iron.Output.BaseDamage)
	}
}

func createRecipeTempFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "recipe_config_*.json")
	require.NoError(t, err)

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)

	err = tmpFile.Close()
	require.NoError(t, err)

	return tmpFile.Name()
}
