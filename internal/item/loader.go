package item

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/validation"
)

// Schema paths
const (
	ItemsSchemaPath = "configs/schemas/items.schema.json"
)

// Config represents the JSON configuration for item templates
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description"`

	Items []Def `json:"items"`
}

// Def represents a single item template definition in the JSON
type Def struct {
	Key         string             `json:"key"`
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Subtype     string             `json:"subtype,omitempty"`
	BaseEffect  map[string]float64 `json:"base_effect,omitempty"`
	Description string             `json:"description,omitempty"`
	BasePrice   int                `json:"base_price"`
	Stackable   bool               `json:"stackable,omitempty"`
	SetName     string             `json:"set_name,omitempty"`
}

// Loader handles loading and validating item template configuration
type Loader interface {
	Load(path string) (*Config, error)
	BuildCatalog(config *Config) (*Catalog, error)
}

type itemLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a new Loader instance
func NewLoader() Loader {
	return &itemLoader{
		schemaValidator: validation.NewSchemaValidator(),
	}
}

// Load reads and parses an item templates JSON file
func (l *itemLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Validate against schema first
	if err := l.schemaValidator.ValidateBytes(data, ItemsSchemaPath); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// BuildCatalog converts the parsed configuration into a Catalog,
// running structural validation on every definition.
func (l *itemLoader) BuildCatalog(config *Config) (*Catalog, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	templates := make([]domain.ItemTemplate, 0, len(config.Items))
	for _, def := range config.Items {
		if !domain.ItemType(def.Type).Valid() {
			return nil, fmt.Errorf("%w: template '%s' has unknown type '%s'", ErrInvalidConfig, def.Key, def.Type)
		}

		effects := make(map[domain.Stat]float64, len(def.BaseEffect))
		for stat, value := range def.BaseEffect {
			effects[domain.Stat(stat)] = value
		}

		templates = append(templates, domain.ItemTemplate{
			Key:         def.Key,
			DisplayName: def.Name,
			Type:        domain.ItemType(def.Type),
			Subtype:     def.Subtype,
			BaseEffect:  effects,
			Description: def.Description,
			BasePrice:   def.BasePrice,
			Stackable:   def.Stackable,
			SetName:     def.SetName,
		})
	}

	return NewCatalog(templates)
}
