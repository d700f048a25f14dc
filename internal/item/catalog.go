package item

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kiln-games/depthforge/internal/domain"
)

// Sentinel errors for catalog construction
var (
	ErrDuplicateKey  = errors.New("duplicate template key")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Catalog is the immutable set of item templates. It is built once at
// startup and injected into every component that mints items.
type Catalog struct {
	templates map[string]domain.ItemTemplate
	keys      []string // insertion order, used for uniform random picks
}

// NewCatalog builds a catalog from template definitions, rejecting
// duplicates and structurally invalid entries.
func NewCatalog(templates []domain.ItemTemplate) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: no templates defined", ErrInvalidConfig)
	}

	c := &Catalog{
		templates: make(map[string]domain.ItemTemplate, len(templates)),
		keys:      make([]string, 0, len(templates)),
	}

	for i, tpl := range templates {
		if err := validateTemplate(i, tpl); err != nil {
			return nil, err
		}
		if _, exists := c.templates[tpl.Key]; exists {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicateKey, tpl.Key)
		}
		c.templates[tpl.Key] = tpl
		c.keys = append(c.keys, tpl.Key)
	}

	return c, nil
}

func validateTemplate(index int, tpl domain.ItemTemplate) error {
	if tpl.Key == "" {
		return fmt.Errorf("%w: template at index %d has empty key", ErrInvalidConfig, index)
	}
	if tpl.DisplayName == "" {
		return fmt.Errorf("%w: template '%s' has empty display name", ErrInvalidConfig, tpl.Key)
	}
	if tpl.Type == "" {
		return fmt.Errorf("%w: template '%s' has empty type", ErrInvalidConfig, tpl.Key)
	}
	if tpl.BasePrice < 0 {
		return fmt.Errorf("%w: template '%s' has negative base price", ErrInvalidConfig, tpl.Key)
	}
	return nil
}

// Get returns the template for key. The second return is false on a
// catalog miss; callers decide whether that is an error.
func (c *Catalog) Get(key string) (domain.ItemTemplate, bool) {
	tpl, ok := c.templates[key]
	return tpl, ok
}

// Keys returns the template keys in catalog order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of templates.
func (c *Catalog) Len() int { return len(c.keys) }

// KeyAt returns the key at a catalog position. Used for uniform random
// template selection.
func (c *Catalog) KeyAt(i int) string { return c.keys[i] }

// FindByName returns templates whose display name contains query,
// case-insensitively.
func (c *Catalog) FindByName(query string) []domain.ItemTemplate {
	q := strings.ToLower(query)
	var out []domain.ItemTemplate
	for _, key := range c.keys {
		tpl := c.templates[key]
		if strings.Contains(strings.ToLower(tpl.DisplayName), q) {
			out = append(out, tpl)
		}
	}
	return out
}
