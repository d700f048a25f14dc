package equipment

import (
	"fmt"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/inventory"
	"github.com/kiln-games/depthforge/internal/item"
)

// Auto-equip scoring weights. Flat multipliers convert an item's effect
// bundle into a single comparable score.
var scoreWeights = map[domain.Stat]float64{
	domain.StatAttack:        1.0,
	domain.StatDefense:       0.8,
	domain.StatHealth:        0.3,
	domain.StatSpeed:         0.6,
	domain.StatLuck:          0.5,
	domain.StatCritRate:      50,
	domain.StatLifeSteal:     40,
	domain.StatDamageReflect: 30,
	domain.StatExpBonus:      25,
}

// Board holds the six equipment slots for one character. Items move between
// the board and an inventory; every mutation either fully succeeds or leaves
// both sides untouched.
type Board struct {
	factory *item.Factory
	slots   map[SlotName]*domain.Item
	sets    map[string]SetDefinition
}

// NewBoard creates an empty board using the built-in set definitions.
func NewBoard(factory *item.Factory) *Board {
	return NewBoardWithSets(factory, DefaultSets())
}

// NewBoardWithSets creates an empty board with custom set definitions.
func NewBoardWithSets(factory *item.Factory, sets map[string]SetDefinition) *Board {
	return &Board{
		factory: factory,
		slots:   make(map[SlotName]*domain.Item, len(SlotNames)),
		sets:    sets,
	}
}

// CanEquip reports whether the item fits the slot. Both the slot's type set
// and subtype set must match.
func (b *Board) CanEquip(it *domain.Item, slot SlotName) bool {
	if it == nil || !slot.Valid() {
		return false
	}

	typeOK := false
	for _, t := range slotTypes[slot] {
		if it.Type == t {
			typeOK = true
			break
		}
	}
	if !typeOK {
		return false
	}

	for _, sub := range slotSubtypes[slot] {
		if it.Subtype == sub {
			return true
		}
	}
	return false
}

// AvailableSlots returns every slot the item could occupy.
func (b *Board) AvailableSlots(it *domain.Item) []SlotName {
	var out []SlotName
	for _, slot := range SlotNames {
		if b.CanEquip(it, slot) {
			out = append(out, slot)
		}
	}
	return out
}

// EquipResult reports an equip mutation.
type EquipResult struct {
	Equipped   *domain.Item `json:"equipped"`
	Unequipped *domain.Item `json:"unequipped,omitempty"` // previous occupant, now back in inventory
}

// Equip moves an inventory item into a slot. A previous occupant cascades
// back into the inventory first. Stackable items with quantity > 1 equip a
// single split-off unit; the rest of the stack stays in inventory. On any
// failure both the board and the inventory are left unchanged.
func (b *Board) Equip(it *domain.Item, slot SlotName, inv *inventory.Store) (*EquipResult, error) {
	if !b.CanEquip(it, slot) {
		return nil, fmt.Errorf("%w: %s in %s", domain.ErrSlotIncompatible, it.DisplayName, slot)
	}
	if _, ok := inv.Get(it.ID); !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, it.ID)
	}

	// Take one unit out of the inventory.
	var equipped *domain.Item
	splitOff := it.Stackable && it.Quantity > 1
	if splitOff {
		unit, err := b.factory.SplitStack(it, 1)
		if err != nil {
			return nil, err
		}
		equipped = unit
	} else {
		if _, err := inv.Remove(it.ID, it.Units()); err != nil {
			return nil, err
		}
		equipped = it
	}

	// Cascade the previous occupant back into the inventory, undoing the
	// take on overflow.
	previous := b.slots[slot]
	if previous != nil {
		if err := b.returnToInventory(previous, inv); err != nil {
			if splitOff {
				it.Quantity += equipped.Quantity
			} else if _, addErr := inv.Add(equipped); addErr != nil {
				return nil, fmt.Errorf("restoring %s after failed equip: %w", equipped.DisplayName, addErr)
			}
			return nil, err
		}
	}

	b.slots[slot] = equipped

	return &EquipResult{Equipped: equipped, Unequipped: previous}, nil
}

// Unequip moves the slot's occupant back into the inventory, merging into a
// matching stack when possible. A full inventory fails the operation and
// the item stays equipped.
func (b *Board) Unequip(slot SlotName, inv *inventory.Store) (*domain.Item, error) {
	it := b.slots[slot]
	if it == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSlotEmpty, slot)
	}

	if err := b.returnToInventory(it, inv); err != nil {
		return nil, err
	}

	delete(b.slots, slot)
	return it, nil
}

func (b *Board) returnToInventory(it *domain.Item, inv *inventory.Store) error {
	if _, err := inv.Add(it); err != nil {
		return err
	}
	return nil
}

// ItemInSlot returns the slot's occupant.
func (b *Board) ItemInSlot(slot SlotName) (*domain.Item, bool) {
	it, ok := b.slots[slot]
	return it, ok && it != nil
}

// EquippedItems returns a copy of the slot map. Empty slots are absent.
func (b *Board) EquippedItems() map[SlotName]*domain.Item {
	out := make(map[SlotName]*domain.Item, len(b.slots))
	for slot, it := range b.slots {
		if it != nil {
			out[slot] = it
		}
	}
	return out
}

// EquippedCount returns the number of occupied slots.
func (b *Board) EquippedCount() int {
	count := 0
	for _, it := range b.slots {
		if it != nil {
			count++
		}
	}
	return count
}

// TotalStats sums every equipped item's effects and enchantment effects,
// restricted to the combat stat vocabulary. Unknown stat keys never
// accumulate.
func (b *Board) TotalStats() domain.StatMap {
	total := make(domain.StatMap, len(domain.CombatStats))
	for _, stat := range domain.CombatStats {
		total[stat] = 0
	}

	for _, it := range b.slots {
		if it == nil {
			continue
		}
		total.AddAllowed(it.Effects)
		for _, ench := range it.Enchantments {
			total.AddAllowed(ench.Effect)
		}
	}
	return total
}

// SetBonuses returns the cumulative bonus bundle per equipped set with at
// least one unlocked tier.
func (b *Board) SetBonuses() map[string]map[domain.Stat]float64 {
	counts := make(map[string]int)
	for _, it := range b.slots {
		if it != nil && it.SetName != "" {
			counts[it.SetName]++
		}
	}

	bonuses := make(map[string]map[domain.Stat]float64)
	for setName, count := range counts {
		def, ok := b.sets[setName]
		if !ok {
			continue
		}
		if bonus := cumulativeSetBonus(def, count); bonus != nil {
			bonuses[setName] = bonus
		}
	}
	return bonuses
}

// UpgradeEquipped raises the slot occupant one upgrade level in place.
func (b *Board) UpgradeEquipped(slot SlotName) (*domain.Item, error) {
	it := b.slots[slot]
	if it == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSlotEmpty, slot)
	}
	if err := b.factory.Upgrade(it, 1); err != nil {
		return nil, err
	}
	return it, nil
}

// ItemScore converts an item's effects into the auto-equip comparison
// score. Enchantments are deliberately excluded.
func ItemScore(it *domain.Item) float64 {
	if it == nil {
		return 0
	}
	score := 0.0
	for stat, weight := range scoreWeights {
		score += it.Effects[stat] * weight
	}
	return score
}

// AutoEquipChange records one slot change made by AutoEquip.
type AutoEquipChange struct {
	Slot  SlotName `json:"slot"`
	Item  string   `json:"item"`
	Score float64  `json:"score"`
}

// AutoEquip walks the slots in board order and equips, per slot, the
// highest-scoring compatible inventory item whose score strictly exceeds
// the current occupant's. An empty slot scores -1, so any compatible item
// fills it.
func (b *Board) AutoEquip(inv *inventory.Store) []AutoEquipChange {
	var changes []AutoEquipChange

	for _, slot := range SlotNames {
		current := b.slots[slot]
		bestScore := -1.0
		if current != nil {
			bestScore = ItemScore(current)
		}

		var best *domain.Item
		for _, candidate := range inv.Items() {
			if !b.CanEquip(candidate, slot) {
				continue
			}
			if score := ItemScore(candidate); score > bestScore {
				best = candidate
				bestScore = score
			}
		}

		if best == nil {
			continue
		}
		if _, err := b.Equip(best, slot, inv); err != nil {
			continue
		}
		changes = append(changes, AutoEquipChange{Slot: slot, Item: best.DisplayName, Score: bestScore})
	}

	return changes
}

// Summary is the aggregate view of a board.
type Summary struct {
	EquippedItems map[SlotName]*domain.Item          `json:"equipped_items"`
	TotalStats    domain.StatMap                     `json:"total_stats"`
	SetBonuses    map[string]map[domain.Stat]float64 `json:"set_bonuses"`
	EquippedCount int                                `json:"equipped_count"`
}

// Summarize returns the equipped items, stat totals and set bonuses in one
// view.
func (b *Board) Summarize() *Summary {
	return &Summary{
		EquippedItems: b.EquippedItems(),
		TotalStats:    b.TotalStats(),
		SetBonuses:    b.SetBonuses(),
		EquippedCount: b.EquippedCount(),
	}
}

// Snapshot is the serializable state of a board.
type Snapshot struct {
	Slots map[SlotName]*domain.Item `json:"slots"`
}

// Export captures the board state for persistence.
func (b *Board) Export() *Snapshot {
	return &Snapshot{Slots: b.EquippedItems()}
}

// Import replaces the board state with a snapshot. Unknown slot names are
// rejected.
func (b *Board) Import(snapshot *Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}
	for slot := range snapshot.Slots {
		if !slot.Valid() {
			return fmt.Errorf("%w: slot %q", domain.ErrInvalidInput, slot)
		}
	}

	b.slots = make(map[SlotName]*domain.Item, len(SlotNames))
	for slot, it := range snapshot.Slots {
		if it != nil {
			b.slots[slot] = it
		}
	}
	return nil
}
