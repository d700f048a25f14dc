package crafting

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/validation"
)

// ErrInvalidConfig reports a structurally broken recipe configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// RecipesSchemaPath locates the recipe config schema.
const RecipesSchemaPath = "configs/schemas/recipes.schema.json"

// Config represents the JSON configuration for recipes
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description"`

	Recipes []Def `json:"recipes"`
}

// Def represents a single recipe definition in the JSON
type Def struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Type         string                    `json:"type"`
	Requirements map[string]map[string]int `json:"requirements"`
	Output       OutputDef                 `json:"output"`
	Locked       bool                      `json:"locked,omitempty"`
}

// OutputDef describes a recipe's produced item in the JSON
type OutputDef struct {
	ItemType     string `json:"item_type"`
	Subtype      string `json:"subtype,omitempty"`
	Name         string `json:"name"`
	BaseDamage   int    `json:"base_damage,omitempty"`
	MagicBonus   int    `json:"magic_bonus,omitempty"`
	Defense      int    `json:"defense,omitempty"`
	Effect       string `json:"effect,omitempty"`
	Power        int    `json:"power,omitempty"`
	Duration     int    `json:"duration,omitempty"`
	Hunger       int    `json:"hunger,omitempty"`
	Stamina      int    `json:"stamina,omitempty"`
	HP           int    `json:"hp,omitempty"`
	BuffStrength int    `json:"buff_strength,omitempty"`
}

// Loader handles loading and validating recipe configuration
type Loader interface {
	Load(path string) (*Config, error)
	BuildRecipes(config *Config) ([]domain.Recipe, error)
}

type recipeLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a new Loader instance
func NewLoader() Loader {
	return &recipeLoader{
		schemaValidator: validation.NewSchemaValidator(),
	}
}

// Load reads and parses a recipes JSON file
func (l *recipeLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := l.schemaValidator.ValidateBytes(data, RecipesSchemaPath); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// BuildRecipes converts the parsed configuration into domain recipes,
// validating every requirement bucket.
func (l *recipeLoader) BuildRecipes(config *Config) ([]domain.Recipe, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if len(config.Recipes) == 0 {
		return nil, fmt.Errorf("%w: no recipes defined", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(config.Recipes))
	recipes := make([]domain.Recipe, 0, len(config.Recipes))

	for i, def := range config.Recipes {
		if def.ID == "" {
			return nil, fmt.Errorf("%w: recipe at index %d has empty id", ErrInvalidConfig, i)
		}
		if seen[def.ID] {
			return nil, fmt.Errorf("%w: duplicate recipe id '%s'", ErrInvalidConfig, def.ID)
		}
		seen[def.ID] = true

		if !domain.ItemType(def.Output.ItemType).Valid() {
			return nil, fmt.Errorf("%w: recipe '%s' outputs unknown item type '%s'", ErrInvalidConfig, def.ID, def.Output.ItemType)
		}

		requirements, err := buildRequirements(def)
		if err != nil {
			return nil, err
		}

		recipes = append(recipes, domain.Recipe{
			ID:           def.ID,
			Name:         def.Name,
			Type:         domain.RecipeType(def.Type),
			Requirements: requirements,
			Output: domain.RecipeOutput{
				ItemType:     domain.ItemType(def.Output.ItemType),
				Subtype:      def.Output.Subtype,
				Name:         def.Output.Name,
				BaseDamage:   def.Output.BaseDamage,
				MagicBonus:   def.Output.MagicBonus,
				Defense:      def.Output.Defense,
				Effect:       def.Output.Effect,
				Power:        def.Output.Power,
				Duration:     def.Output.Duration,
				Hunger:       def.Output.Hunger,
				Stamina:      def.Output.Stamina,
				HP:           def.Output.HP,
				BuffStrength: def.Output.BuffStrength,
			},
			Unlocked: !def.Locked,
		})
	}

	return recipes, nil
}

func buildRequirements(def Def) (map[domain.ResourceType]map[domain.Rarity]int, error) {
	if len(def.Requirements) == 0 {
		return nil, fmt.Errorf("%w: recipe '%s' has no requirements", ErrInvalidConfig, def.ID)
	}

	requirements := make(map[domain.ResourceType]map[domain.Rarity]int, len(def.Requirements))
	for resType, byRarity := range def.Requirements {
		t := domain.ResourceType(resType)
		if !t.Valid() {
			return nil, fmt.Errorf("%w: recipe '%s' requires unknown resource '%s'", ErrInvalidConfig, def.ID, resType)
		}
		requirements[t] = make(map[domain.Rarity]int, len(byRarity))
		for rarity, count := range byRarity {
			if count <= 0 {
				return nil, fmt.Errorf("%w: recipe '%s' has non-positive requirement", ErrInvalidConfig, def.ID)
			}
			requirements[t][domain.Rarity(rarity)] = count
		}
	}
	return requirements, nil
}
