package shop

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/inventory"
	"github.com/kiln-games/depthforge/internal/item"
	"github.com/kiln-games/depthforge/internal/utils"
)

// Listing is one shop slot: an item plus its shop-only pricing. The item
// itself never carries shop fields, so a purchase hands it over clean.
type Listing struct {
	Item      *domain.Item `json:"item"`
	ShopPrice int          `json:"shop_price"`
	SellPrice int          `json:"sell_price"`
	Special   bool         `json:"special,omitempty"`
}

// Market is one player's shop: generated stock, reputation and discounts.
// Restocking is driven by accumulated update time.
type Market struct {
	factory *item.Factory

	listings     []*Listing
	shopType     string
	discountRate float64
	reputation   int
	restockTimer time.Duration

	rnd func() float64
}

// NewMarket creates a general-store market with empty stock.
func NewMarket(factory *item.Factory) *Market {
	return &Market{
		factory:  factory,
		shopType: "general",
		rnd:      utils.RandomFloat,
	}
}

// Listings returns the current stock in display order.
func (m *Market) Listings() []*Listing {
	out := make([]*Listing, len(m.listings))
	copy(out, m.listings)
	return out
}

// Reputation returns the accumulated shop reputation.
func (m *Market) Reputation() int { return m.reputation }

// DiscountRate returns the active discount.
func (m *Market) DiscountRate() float64 { return m.discountRate }

// ShopType returns the active archetype key.
func (m *Market) ShopType() string { return m.shopType }

// AvailableShopTypes lists the archetype keys.
func AvailableShopTypes() []string {
	out := make([]string, len(shopTypeOrder))
	copy(out, shopTypeOrder)
	return out
}

// ChangeShopType switches the market's archetype. Stock is untouched until
// the next restock.
func (m *Market) ChangeShopType(shopType string) error {
	if _, ok := shopTypes[shopType]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownShopType, shopType)
	}
	m.shopType = shopType
	return nil
}

// GenerateInventory clears and refills the stock for the given archetype.
// Each slot retries generation a bounded number of times to match the
// slot's desired item type; a slot that never matches stays unfilled. One
// special listing may append at double markup. Stock sorts by rarity
// ascending, then shop price ascending.
func (m *Market) GenerateInventory(shopType string, playerLevel int) error {
	def, ok := shopTypes[shopType]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownShopType, shopType)
	}

	m.shopType = shopType
	m.listings = m.listings[:0]

	minLevel := playerLevel - 2
	if minLevel < 1 {
		minLevel = 1
	}
	maxLevel := playerLevel + 3
	if maxLevel > def.LevelRange[1] {
		maxLevel = def.LevelRange[1]
	}
	// High-level players still see capped stock, never items above the
	// archetype's range.
	if minLevel > maxLevel {
		minLevel = maxLevel
	}

	for i := 0; i < MaxShopItems; i++ {
		wantType := def.ItemTypes[m.pickIndex(len(def.ItemTypes))]
		level := minLevel
		if maxLevel > minLevel {
			level = minLevel + m.pickIndex(maxLevel-minLevel+1)
		}
		rarity := m.rollRarity(def.RarityWeights)

		if it := m.generateOfType(wantType, level, rarity); it != nil {
			m.listings = append(m.listings, m.newListing(it, false))
		}
	}

	if m.rnd() < SpecialChance {
		m.addSpecialListing(playerLevel)
	}

	m.sortListings()
	return nil
}

func (m *Market) pickIndex(n int) int {
	idx := int(m.rnd() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// rollRarity draws from the archetype's weighted table by cumulative
// threshold against one roll in [0, 100).
func (m *Market) rollRarity(weights []RarityWeight) domain.Rarity {
	roll := m.rnd() * 100
	cumulative := 0.0
	for _, w := range weights {
		cumulative += float64(w.Weight)
		if roll <= cumulative {
			return w.Rarity
		}
	}
	return domain.RarityCommon
}

// generateOfType retries random generation until the item type matches.
// Returns nil after exhausting the attempt budget.
func (m *Market) generateOfType(want domain.ItemType, level int, rarity domain.Rarity) *domain.Item {
	for attempts := 0; attempts < GenerationAttempts; attempts++ {
		it, err := m.factory.GenerateRandom(level, rarity)
		if err != nil {
			return nil
		}
		if it.Type == want {
			return it
		}
	}
	return nil
}

func (m *Market) newListing(it *domain.Item, special bool) *Listing {
	markup := PriceMultiplier
	if special {
		markup *= SpecialMarkup
	}
	return &Listing{
		Item:      it,
		ShopPrice: int(math.Floor(float64(it.Price) * markup * (1 - m.discountRate))),
		SellPrice: int(math.Floor(float64(it.Price) * SellMultiplier)),
		Special:   special,
	}
}

// addSpecialListing appends one special-table item at double markup.
// Templates missing from the catalog are skipped silently.
func (m *Market) addSpecialListing(playerLevel int) {
	special := specialListings[m.pickIndex(len(specialListings))]
	it, err := m.factory.CreateFromTemplate(special.templateKey, special.rarity, playerLevel)
	if err != nil {
		return
	}
	m.listings = append(m.listings, m.newListing(it, true))
}

func (m *Market) sortListings() {
	sort.SliceStable(m.listings, func(i, j int) bool {
		a, b := m.listings[i], m.listings[j]
		if a.Item.Rarity.Order() != b.Item.Rarity.Order() {
			return a.Item.Rarity.Order() < b.Item.Rarity.Order()
		}
		return a.ShopPrice < b.ShopPrice
	})
}

// BuyResult reports a completed purchase.
type BuyResult struct {
	Item             *domain.Item `json:"item"`
	Cost             int          `json:"cost"`
	ReputationGained int          `json:"reputation_gained"`
}

// Buy purchases the listing at index into the target inventory, merging
// into a matching stack when possible. Reputation grows with the shop
// price. A full inventory fails the purchase and keeps the listing.
func (m *Market) Buy(index int, credits int, inv *inventory.Store) (*BuyResult, error) {
	if index < 0 || index >= len(m.listings) {
		return nil, fmt.Errorf("%w: index %d", domain.ErrListingNotFound, index)
	}

	listing := m.listings[index]
	if credits < listing.ShopPrice {
		return nil, &domain.InsufficientCreditsError{Required: listing.ShopPrice, Available: credits}
	}

	if _, err := inv.Add(listing.Item); err != nil {
		return nil, err
	}

	m.listings = append(m.listings[:index], m.listings[index+1:]...)

	gained := listing.ShopPrice / ReputationPriceDivisor
	m.reputation += gained

	return &BuyResult{
		Item:             listing.Item,
		Cost:             listing.ShopPrice,
		ReputationGained: gained,
	}, nil
}

// SellResult reports a buyback.
type SellResult struct {
	Earned int `json:"earned"`
}

// SellItem sells one unit of an inventory item back to the shop at the
// buyback rate.
func (m *Market) SellItem(itemID string, inv *inventory.Store) (*SellResult, error) {
	it, ok := inv.Get(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}

	earned := int(math.Floor(float64(it.Price) * SellMultiplier))

	if _, err := inv.Remove(itemID, 1); err != nil {
		return nil, err
	}

	return &SellResult{Earned: earned}, nil
}

// BulkDiscount returns the discount rate for buying itemCount listings at
// once.
func BulkDiscount(itemCount int) float64 {
	switch {
	case itemCount >= BulkDiscountLargeCount:
		return BulkDiscountLargeRate
	case itemCount >= BulkDiscountSmallCount:
		return BulkDiscountSmallRate
	default:
		return 0
	}
}

// BoughtItem is one line of a bulk purchase receipt.
type BoughtItem struct {
	Item *domain.Item `json:"item"`
	Cost int          `json:"cost"`
}

// BulkResult reports a bulk purchase.
type BulkResult struct {
	Items        []BoughtItem `json:"items"`
	TotalCost    int          `json:"total_cost"`
	BulkDiscount float64      `json:"bulk_discount"`
}

// BuyBulk purchases several listings at once with a quantity discount.
// Duplicate and out-of-range indices are dropped. The whole order is
// priced at the discounted rate up front; short credits or short
// inventory space fail the entire purchase before any item or credit
// moves, so TotalCost always matches the items delivered.
func (m *Market) BuyBulk(indices []int, credits int, inv *inventory.Store) (*BulkResult, error) {
	seen := make(map[int]struct{}, len(indices))
	var valid []int
	for _, idx := range indices {
		if idx < 0 || idx >= len(m.listings) {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		valid = append(valid, idx)
	}

	discount := BulkDiscount(len(valid))
	totalCost := 0
	for _, idx := range valid {
		totalCost += int(math.Floor(float64(m.listings[idx].ShopPrice) * (1 - discount)))
	}

	if totalCost > credits {
		return nil, &domain.InsufficientCreditsError{Required: totalCost, Available: credits}
	}
	// Conservative: stack merges could need fewer slots, but reserving one
	// slot per listing keeps the order all-or-nothing.
	if len(valid) > inv.FreeSlots() {
		return nil, domain.ErrInventoryFull
	}

	// Remove from the highest index down so earlier removals don't shift
	// later ones.
	sort.Sort(sort.Reverse(sort.IntSlice(valid)))

	result := &BulkResult{TotalCost: totalCost, BulkDiscount: discount}
	for _, idx := range valid {
		listing := m.listings[idx]
		if _, err := inv.Add(listing.Item); err != nil {
			return nil, err
		}
		m.listings = append(m.listings[:idx], m.listings[idx+1:]...)
		m.reputation += listing.ShopPrice / ReputationPriceDivisor

		cost := int(math.Floor(float64(listing.ShopPrice) * (1 - discount)))
		result.Items = append(result.Items, BoughtItem{Item: listing.Item, Cost: cost})
	}

	return result, nil
}

// ApplyDiscount sets the discount rate, clamped to the cap, and reprices
// the current stock. Special listings keep their extra markup.
func (m *Market) ApplyDiscount(rate float64) {
	m.discountRate = math.Min(MaxDiscountRate, math.Max(0, rate))

	for _, listing := range m.listings {
		markup := PriceMultiplier
		if listing.Special {
			markup *= SpecialMarkup
		}
		listing.ShopPrice = int(math.Floor(float64(listing.Item.Price) * markup * (1 - m.discountRate)))
	}
}

// UpdateReputationDiscount applies the highest discount tier the current
// reputation unlocks, repricing stock when the rate changes.
func (m *Market) UpdateReputationDiscount() {
	newDiscount := 0.0
	for _, tier := range reputationTiers {
		if m.reputation >= tier.threshold {
			newDiscount = tier.discount
		}
	}
	if newDiscount != m.discountRate {
		m.ApplyDiscount(newDiscount)
	}
}

// ReputationTier names the highest reputation tier reached.
func (m *Market) ReputationTier() string {
	name := "None"
	for _, tier := range reputationTiers {
		if m.reputation >= tier.threshold {
			name = tier.name
		}
	}
	return name
}

// Restock regenerates the stock for the current archetype.
func (m *Market) Restock(playerLevel int) error {
	return m.GenerateInventory(m.shopType, playerLevel)
}

// Update advances the restock timer and refreshes the reputation
// discount. Stock regenerates once the accumulated time passes the
// restock interval.
func (m *Market) Update(delta time.Duration, playerLevel int) error {
	m.restockTimer += delta
	if m.restockTimer >= RestockInterval {
		m.restockTimer = 0
		if err := m.Restock(playerLevel); err != nil {
			return err
		}
	}
	m.UpdateReputationDiscount()
	return nil
}

// Info is the display view of a market.
type Info struct {
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Listings     []*Listing `json:"listings"`
	ItemCount    int        `json:"item_count"`
	DiscountRate float64    `json:"discount_rate"`
	Reputation   int        `json:"reputation"`
	Tier         string     `json:"tier"`
}

// ShopInfo returns the market's display view.
func (m *Market) ShopInfo() *Info {
	return &Info{
		Name:         shopTypes[m.shopType].Name,
		Type:         m.shopType,
		Listings:     m.Listings(),
		ItemCount:    len(m.listings),
		DiscountRate: m.discountRate,
		Reputation:   m.reputation,
		Tier:         m.ReputationTier(),
	}
}

// Snapshot is the serializable state of a market.
type Snapshot struct {
	ShopType     string     `json:"shop_type"`
	Reputation   int        `json:"reputation"`
	DiscountRate float64    `json:"discount_rate"`
	Listings     []*Listing `json:"listings"`
}

// Export captures the market state for persistence. The restock timer is
// transient and resets on import.
func (m *Market) Export() *Snapshot {
	return &Snapshot{
		ShopType:     m.shopType,
		Reputation:   m.reputation,
		DiscountRate: m.discountRate,
		Listings:     m.Listings(),
	}
}

// Import replaces the market state with a snapshot.
func (m *Market) Import(snapshot *Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}
	if _, ok := shopTypes[snapshot.ShopType]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownShopType, snapshot.ShopType)
	}

	m.shopType = snapshot.ShopType
	m.reputation = snapshot.Reputation
	m.discountRate = snapshot.DiscountRate
	m.listings = append([]*Listing(nil), snapshot.Listings...)
	m.restockTimer = 0
	return nil
}
