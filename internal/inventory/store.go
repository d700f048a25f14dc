package inventory

import (
	"fmt"
	"math"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/item"
)

// Store is a bounded, ordered collection of item records with stacking,
// selection and upgrade-material bookkeeping. Stack merges never consume a
// slot; capacity counts records, not units.
type Store struct {
	factory *item.Factory

	items    []*domain.Item
	maxSlots int

	sortMode   SortMode
	filterType FilterType
	page       int
	selected   map[string]struct{}
}

// NewStore creates an empty inventory with the default capacity.
func NewStore(factory *item.Factory) *Store {
	return NewStoreWithCapacity(factory, DefaultMaxSlots)
}

// NewStoreWithCapacity creates an empty inventory holding up to maxSlots
// records.
func NewStoreWithCapacity(factory *item.Factory, maxSlots int) *Store {
	if maxSlots <= 0 {
		maxSlots = DefaultMaxSlots
	}
	return &Store{
		factory:    factory,
		maxSlots:   maxSlots,
		sortMode:   SortByType,
		filterType: FilterAll,
		selected:   make(map[string]struct{}),
	}
}

// AddResult reports how an item entered the inventory.
type AddResult struct {
	Stacked bool
}

// Add inserts an item. Stackable items first try to merge into a matching
// record; a merge consumes no slot. A full inventory with no matching stack
// fails without mutation.
func (s *Store) Add(it *domain.Item) (*AddResult, error) {
	if it == nil {
		return nil, fmt.Errorf("%w: nil item", domain.ErrInvalidInput)
	}

	if it.Stackable {
		for _, existing := range s.items {
			if existing.CanStackWith(it) {
				if err := s.factory.Stack(existing, it); err != nil {
					return nil, err
				}
				return &AddResult{Stacked: true}, nil
			}
		}
	}

	if len(s.items) >= s.maxSlots {
		return nil, domain.ErrInventoryFull
	}

	s.items = append(s.items, it)
	return &AddResult{}, nil
}

// RemoveResult reports what a remove call did.
type RemoveResult struct {
	Removed   *domain.Item // set when the whole record left the inventory
	Remaining int          // stack quantity left in place, 0 when removed
}

// Remove takes quantity units of the identified item. Stacks larger than the
// requested quantity decrement in place; otherwise the whole record is
// removed.
func (s *Store) Remove(itemID string, quantity int) (*RemoveResult, error) {
	if quantity < 1 {
		quantity = 1
	}

	idx := s.indexOf(itemID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}

	it := s.items[idx]
	if it.Stackable && it.Quantity > quantity {
		it.Quantity -= quantity
		return &RemoveResult{Remaining: it.Quantity}, nil
	}

	s.items = append(s.items[:idx], s.items[idx+1:]...)
	delete(s.selected, itemID)
	return &RemoveResult{Removed: it}, nil
}

// Get returns the item with the given id.
func (s *Store) Get(itemID string) (*domain.Item, bool) {
	idx := s.indexOf(itemID)
	if idx < 0 {
		return nil, false
	}
	return s.items[idx], true
}

func (s *Store) indexOf(itemID string) int {
	for i, it := range s.items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

// TimedBoost is a temporary stat buff with a duration in seconds.
type TimedBoost struct {
	Value    float64 `json:"value"`
	Duration float64 `json:"duration"`
}

// EffectBundle is the computed outcome of consuming an item. Applying it to
// a character is the caller's responsibility.
type EffectBundle struct {
	Heal        float64                 `json:"heal,omitempty"`
	Mana        float64                 `json:"mana,omitempty"`
	AttackBoost *TimedBoost             `json:"attack_boost,omitempty"`
	SpeedBoost  *TimedBoost             `json:"speed_boost,omitempty"`
	Other       map[domain.Stat]float64 `json:"other,omitempty"`
}

// UseItem consumes one unit of a consumable and returns its effect bundle.
// Non-consumables fail with ErrNotConsumable.
func (s *Store) UseItem(itemID string) (*EffectBundle, error) {
	it, ok := s.Get(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	if it.Type != domain.ItemTypeConsumable {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotConsumable, it.DisplayName)
	}

	bundle := buildEffectBundle(it)

	if _, err := s.Remove(itemID, 1); err != nil {
		return nil, err
	}

	return bundle, nil
}

func buildEffectBundle(it *domain.Item) *EffectBundle {
	duration := float64(DefaultBoostDuration)
	if d, ok := it.Effects[domain.StatDuration]; ok && d > 0 {
		duration = d
	}

	bundle := &EffectBundle{}
	for stat, value := range it.Effects {
		switch stat {
		case domain.StatHeal:
			bundle.Heal = value
		case domain.StatMana:
			bundle.Mana = value
		case domain.StatAttackBoost:
			bundle.AttackBoost = &TimedBoost{Value: value, Duration: duration}
		case domain.StatSpeedBoost:
			bundle.SpeedBoost = &TimedBoost{Value: value, Duration: duration}
		case domain.StatDuration:
			// folded into the boosts above
		default:
			if bundle.Other == nil {
				bundle.Other = make(map[domain.Stat]float64)
			}
			bundle.Other[stat] = value
		}
	}
	return bundle
}

// UpgradeRequirements returns the material template keys and quantities
// needed to raise the item one upgrade level. Zero-quantity entries are
// omitted.
func UpgradeRequirements(it *domain.Item) map[string]int {
	required := map[string]int{
		UpgradeCrystalKey: 1 + it.UpgradeLevel,
		RareOreKey:        it.UpgradeLevel / 2,
	}
	for key, qty := range required {
		if qty <= 0 {
			delete(required, key)
		}
	}
	return required
}

// Upgrade raises the item one upgrade level, consuming the required
// materials from this inventory. Materials are matched by template key,
// summing stack quantities. Fails without mutation when materials are
// short or the upgrade itself is rejected.
func (s *Store) Upgrade(itemID string) (*domain.Item, error) {
	it, ok := s.Get(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	if it.Type == domain.ItemTypeConsumable {
		return nil, fmt.Errorf("%w: consumables cannot be upgraded", domain.ErrInvalidInput)
	}

	required := UpgradeRequirements(it)
	available := s.materialCounts(required)
	for key, qty := range required {
		if available[key] < qty {
			return nil, &domain.InsufficientMaterialsError{Required: required, Available: available}
		}
	}

	// The factory enforces the upgrade cap and template lookup, so it must
	// run before any material leaves the inventory.
	if err := s.factory.Upgrade(it, 1); err != nil {
		return nil, err
	}

	for key, qty := range required {
		if err := s.consumeMaterial(key, qty); err != nil {
			return nil, err
		}
	}

	return it, nil
}

func (s *Store) materialCounts(required map[string]int) map[string]int {
	counts := make(map[string]int, len(required))
	for key := range required {
		for _, it := range s.items {
			if it.TemplateKey == key {
				counts[key] += it.Units()
			}
		}
	}
	return counts
}

func (s *Store) consumeMaterial(templateKey string, quantity int) error {
	for quantity > 0 {
		var target *domain.Item
		for _, it := range s.items {
			if it.TemplateKey == templateKey {
				target = it
				break
			}
		}
		if target == nil {
			return fmt.Errorf("%w: material %s", domain.ErrItemNotFound, templateKey)
		}

		take := quantity
		if target.Stackable && target.Quantity < take {
			take = target.Quantity
		} else if !target.Stackable {
			take = 1
		}

		if _, err := s.Remove(target.ID, take); err != nil {
			return err
		}
		quantity -= take
	}
	return nil
}

// ToggleSelection adds the item to the selection set, or removes it if
// already selected. Unknown ids are ignored.
func (s *Store) ToggleSelection(itemID string) {
	if s.indexOf(itemID) < 0 {
		return
	}
	if _, ok := s.selected[itemID]; ok {
		delete(s.selected, itemID)
	} else {
		s.selected[itemID] = struct{}{}
	}
}

// ClearSelection empties the selection set.
func (s *Store) ClearSelection() {
	s.selected = make(map[string]struct{})
}

// SelectedItems returns the selected records in inventory order.
func (s *Store) SelectedItems() []*domain.Item {
	var out []*domain.Item
	for _, it := range s.items {
		if _, ok := s.selected[it.ID]; ok {
			out = append(out, it)
		}
	}
	return out
}

// SoldItem is one line of a bulk-sell receipt.
type SoldItem struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// SellResult is the receipt of a bulk sale.
type SellResult struct {
	Sold       []SoldItem `json:"sold"`
	TotalValue int        `json:"total_value"`
	ItemCount  int        `json:"item_count"`
}

// SellSelected sells every selected record at the sell rate, removes them
// and clears the selection. Stacks sell whole.
func (s *Store) SellSelected() *SellResult {
	result := &SellResult{}
	for _, it := range s.SelectedItems() {
		price := int(math.Floor(float64(it.Price) * SellRate))
		if _, err := s.Remove(it.ID, it.Units()); err != nil {
			continue
		}
		result.Sold = append(result.Sold, SoldItem{Name: it.DisplayName, Price: price})
		result.TotalValue += price
	}
	result.ItemCount = len(result.Sold)
	s.ClearSelection()
	return result
}

// Count returns the number of occupied slots.
func (s *Store) Count() int { return len(s.items) }

// FreeSlots returns the remaining record capacity.
func (s *Store) FreeSlots() int { return s.maxSlots - len(s.items) }

// MaxSlots returns the record capacity.
func (s *Store) MaxSlots() int { return s.maxSlots }

// Items returns the stored records in insertion order.
func (s *Store) Items() []*domain.Item {
	out := make([]*domain.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Value returns the sum of all record prices.
func (s *Store) Value() int {
	total := 0
	for _, it := range s.items {
		total += it.Price
	}
	return total
}
