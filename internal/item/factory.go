package item

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/utils"
)

// Factory mints concrete item instances from catalog templates, applying
// rarity multipliers, level scaling and enchantment rolls. It also owns the
// stack/split/upgrade mechanics delegated to it by inventory and equipment.
type Factory struct {
	catalog *Catalog
	rnd     func() float64
	newID   func() string
}

// NewFactory creates a Factory backed by the given catalog.
func NewFactory(catalog *Catalog) *Factory {
	return &Factory{
		catalog: catalog,
		rnd:     utils.RandomFloat,
		newID:   uuid.NewString,
	}
}

// Catalog returns the catalog the factory mints from.
func (f *Factory) Catalog() *Catalog { return f.catalog }

// CreateFromTemplate mints an item instance from a template key. An unknown
// key is a hard error: silent fallback to an arbitrary template would mask
// data bugs.
func (f *Factory) CreateFromTemplate(templateKey string, rarity domain.Rarity, characterLevel int) (*domain.Item, error) {
	tpl, ok := f.catalog.Get(templateKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTemplate, templateKey)
	}
	if !rarity.Valid() {
		return nil, fmt.Errorf("%w: rarity %q", domain.ErrInvalidInput, rarity)
	}
	if characterLevel < 1 {
		characterLevel = 1
	}

	rarityMult := rarity.Multiplier()
	levelScaling := 1 + float64(characterLevel-1)*LevelScalingStep

	it := &domain.Item{
		ID:          f.newID(),
		TemplateKey: templateKey,
		DisplayName: rarity.DisplayPrefix() + tpl.DisplayName,
		Type:        tpl.Type,
		Subtype:     tpl.Subtype,
		Rarity:      rarity,
		Level:       characterLevel,
		Description: tpl.Description,
		Price:       utils.FloorMul(float64(tpl.BasePrice), rarityMult, levelScaling),
		Stackable:   tpl.Stackable,
		Effects:     scaleEffects(tpl.BaseEffect, rarityMult, levelScaling),
		SetName:     tpl.SetName,
	}
	if it.Stackable {
		it.Quantity = 1
	}

	f.rollEnchantments(it)

	return it, nil
}

// scaleEffects applies the rarity and level multipliers to every base
// effect entry, flooring each result.
func scaleEffects(base map[domain.Stat]float64, rarityMult, levelScaling float64) map[domain.Stat]float64 {
	effects := make(map[domain.Stat]float64, len(base))
	for stat, value := range base {
		effects[stat] = math.Floor(value * rarityMult * levelScaling)
	}
	return effects
}

// rollEnchantments grants 0-2 enchantments depending on rarity tier.
func (f *Factory) rollEnchantments(it *domain.Item) {
	switch it.Rarity {
	case domain.RarityUncommon:
		if f.rnd() < UncommonMinorChance {
			it.Enchantments = append(it.Enchantments, randomEnchantment(TierMinor, f.rnd()))
		}
	case domain.RarityRare:
		it.Enchantments = append(it.Enchantments, randomEnchantment(TierMinor, f.rnd()))
		if f.rnd() < RareModerateChance {
			it.Enchantments = append(it.Enchantments, randomEnchantment(TierModerate, f.rnd()))
		}
	case domain.RarityEpic:
		it.Enchantments = append(it.Enchantments, randomEnchantment(TierModerate, f.rnd()))
		it.Enchantments = append(it.Enchantments, randomEnchantment(TierMajor, f.rnd()))
	case domain.RarityLegendary:
		it.Enchantments = append(it.Enchantments, randomEnchantment(TierMajor, f.rnd()))
		it.Enchantments = append(it.Enchantments, randomEnchantment(TierLegendary, f.rnd()))
	}
}

// GenerateRandom mints a random catalog item at the given character level.
// Pass an empty rarity to roll one from the weighted table.
func (f *Factory) GenerateRandom(characterLevel int, forcedRarity domain.Rarity) (*domain.Item, error) {
	rarity := forcedRarity
	if rarity == "" {
		rarity = f.rollRarity()
	}

	idx := int(f.rnd() * float64(f.catalog.Len()))
	if idx >= f.catalog.Len() {
		idx = f.catalog.Len() - 1
	}

	return f.CreateFromTemplate(f.catalog.KeyAt(idx), rarity, characterLevel)
}

// rollRarity draws a rarity by cumulative-threshold selection against one
// uniform roll in [0, 100).
func (f *Factory) rollRarity() domain.Rarity {
	weights := []struct {
		rarity domain.Rarity
		weight int
	}{
		{domain.RarityCommon, WeightCommon},
		{domain.RarityUncommon, WeightUncommon},
		{domain.RarityRare, WeightRare},
		{domain.RarityEpic, WeightEpic},
		{domain.RarityLegendary, WeightLegendary},
	}

	roll := f.rnd() * 100
	cumulative := 0.0
	for _, w := range weights {
		cumulative += float64(w.weight)
		if roll <= cumulative {
			return w.rarity
		}
	}
	return domain.RarityCommon
}

// Upgrade raises the item's upgrade level by levels, capped at
// MaxUpgradeLevel, and recomputes its effects from the original template
// base using the item's frozen creation-time level scaling. Returns
// ErrUpgradeMaxed when the item is already at the cap.
func (f *Factory) Upgrade(it *domain.Item, levels int) error {
	if it.UpgradeLevel >= MaxUpgradeLevel {
		return domain.ErrUpgradeMaxed
	}
	tpl, ok := f.catalog.Get(it.TemplateKey)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownTemplate, it.TemplateKey)
	}

	it.UpgradeLevel = utils.ClampInt(it.UpgradeLevel+levels, 0, MaxUpgradeLevel)

	upgradeMult := 1 + float64(it.UpgradeLevel)*UpgradeEffectStep
	levelScaling := 1 + float64(it.Level-1)*LevelScalingStep
	it.Effects = scaleEffects(tpl.BaseEffect, it.Rarity.Multiplier()*upgradeMult, levelScaling)

	it.DisplayName = it.Rarity.DisplayPrefix() + tpl.DisplayName
	if it.UpgradeLevel > 0 {
		it.DisplayName = fmt.Sprintf("%s +%d", it.DisplayName, it.UpgradeLevel)
	}

	return nil
}

// Stack merges incoming into existing. The caller discards the incoming
// record on success. Records merge only when both are stackable and share
// template key, rarity and upgrade level.
func (f *Factory) Stack(existing, incoming *domain.Item) error {
	if !existing.CanStackWith(incoming) {
		return fmt.Errorf("%w: %s does not stack with %s", domain.ErrNotStackable, incoming.DisplayName, existing.DisplayName)
	}
	existing.Quantity += incoming.Quantity
	return nil
}

// SplitStack splits amount units off a stack into a new record with a fresh
// id, decrementing the source. The full stack cannot be split off.
func (f *Factory) SplitStack(it *domain.Item, amount int) (*domain.Item, error) {
	if !it.Stackable {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotStackable, it.DisplayName)
	}
	if amount <= 0 || it.Quantity <= amount {
		return nil, fmt.Errorf("%w: cannot split %d from a stack of %d", domain.ErrInvalidInput, amount, it.Quantity)
	}

	split := *it
	split.ID = f.newID()
	split.Quantity = amount
	split.Effects = copyEffects(it.Effects)
	split.Enchantments = append([]domain.Enchantment(nil), it.Enchantments...)

	it.Quantity -= amount

	return &split, nil
}

func copyEffects(effects map[domain.Stat]float64) map[domain.Stat]float64 {
	out := make(map[domain.Stat]float64, len(effects))
	for k, v := range effects {
		out[k] = v
	}
	return out
}

// DisplayInfo is the render-ready view of an item.
type DisplayInfo struct {
	DisplayName  string                  `json:"display_name"`
	Color        string                  `json:"color"`
	Effects      map[domain.Stat]float64 `json:"effects"`
	Enchantments []domain.Enchantment    `json:"enchantments,omitempty"`
	Description  string                  `json:"description,omitempty"`
	Price        int                     `json:"price"`
}

// Display returns the UI view of an item, appending the stack count for
// multi-unit stacks.
func Display(it *domain.Item) DisplayInfo {
	name := it.DisplayName
	if it.Stackable && it.Quantity > 1 {
		name = fmt.Sprintf("%s (x%d)", name, it.Quantity)
	}
	return DisplayInfo{
		DisplayName:  name,
		Color:        it.Rarity.Color(),
		Effects:      it.Effects,
		Enchantments: it.Enchantments,
		Description:  it.Description,
		Price:        it.Price,
	}
}
