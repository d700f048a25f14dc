package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/kiln-games/depthforge/internal/crafting"
	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/equipment"
	"github.com/kiln-games/depthforge/internal/inventory"
	"github.com/kiln-games/depthforge/internal/item"
	"github.com/kiln-games/depthforge/internal/resource"
	"github.com/kiln-games/depthforge/internal/shop"
)

// Session is one player's isolated economy state: inventory, equipment,
// resources, crafting progress and shop. Every public method takes the
// session lock, so a session is safe to share across handler goroutines;
// state is never shared between sessions.
type Session struct {
	mu sync.Mutex

	id        string
	createdAt time.Time

	playerLevel int
	credits     int

	inventory *inventory.Store
	equipment *equipment.Board
	ledger    *resource.Ledger
	field     *resource.Field
	book      *crafting.Book
	market    *shop.Market
}

// New creates a session with fresh components built on the shared factory
// and recipe list.
func New(id string, factory *item.Factory, recipes []domain.Recipe) *Session {
	ledger := resource.NewLedger()
	return &Session{
		id:          id,
		createdAt:   time.Now(),
		playerLevel: 1,
		credits:     StartingCredits,
		inventory:   inventory.NewStore(factory),
		equipment:   equipment.NewBoard(factory),
		ledger:      ledger,
		field:       resource.NewField(ledger),
		book:        crafting.NewBook(recipes),
		market:      shop.NewMarket(factory),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Credits returns the player's wallet balance.
func (s *Session) Credits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credits
}

// PlayerLevel returns the player's level.
func (s *Session) PlayerLevel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerLevel
}

// SetPlayerLevel sets the player's level. Levels below 1 are invalid.
func (s *Session) SetPlayerLevel(level int) error {
	if level < 1 {
		return fmt.Errorf("%w: level %d", domain.ErrInvalidInput, level)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerLevel = level
	return nil
}

// AddCredits grants credits to the wallet.
func (s *Session) AddCredits(amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: amount %d", domain.ErrInvalidInput, amount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credits += amount
	return nil
}

// With runs fn while holding the session lock, handing it the session's
// components. All handler mutations go through here so a session's state
// only ever changes under its own lock.
func (s *Session) With(fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := &State{
		PlayerLevel: s.playerLevel,
		Credits:     s.credits,
		Inventory:   s.inventory,
		Equipment:   s.equipment,
		Ledger:      s.ledger,
		Field:       s.field,
		Book:        s.book,
		Market:      s.market,
	}
	err := fn(state)
	if err == nil {
		s.playerLevel = state.PlayerLevel
		s.credits = state.Credits
	}
	return err
}

// State is the locked view handed to With callbacks. PlayerLevel and
// Credits write back on success; the components mutate in place.
type State struct {
	PlayerLevel int
	Credits     int

	Inventory *inventory.Store
	Equipment *equipment.Board
	Ledger    *resource.Ledger
	Field     *resource.Field
	Book      *crafting.Book
	Market    *shop.Market
}

// Buy purchases a shop listing with the session wallet.
func (s *Session) Buy(index int) (*shop.BuyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.market.Buy(index, s.credits, s.inventory)
	if err != nil {
		return nil, err
	}
	s.credits -= result.Cost
	return result, nil
}

// BuyBulk purchases several listings at once with the session wallet.
func (s *Session) BuyBulk(indices []int) (*shop.BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.market.BuyBulk(indices, s.credits, s.inventory)
	if err != nil {
		return nil, err
	}
	s.credits -= result.TotalCost
	return result, nil
}

// Sell sells one unit of an inventory item back to the shop, crediting the
// wallet.
func (s *Session) Sell(itemID string) (*shop.SellResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.market.SellItem(itemID, s.inventory)
	if err != nil {
		return nil, err
	}
	s.credits += result.Earned
	return result, nil
}

// SellSelected sells the inventory's selected items, crediting the wallet.
func (s *Session) SellSelected() *inventory.SellResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.inventory.SellSelected()
	s.credits += result.TotalValue
	return result
}

// Update advances time-driven state: the shop restock timer ticks with the
// player's current level.
func (s *Session) Update(delta time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market.Update(delta, s.playerLevel)
}

// Snapshot is the serializable union of a session's component states.
type Snapshot struct {
	ID          string                  `json:"id"`
	CreatedAt   time.Time               `json:"created_at"`
	PlayerLevel int                     `json:"player_level"`
	Credits     int                     `json:"credits"`
	Inventory   *inventory.Snapshot     `json:"inventory"`
	Equipment   *equipment.Snapshot     `json:"equipment"`
	Resources   *resource.Snapshot      `json:"resources"`
	Nodes       *resource.FieldSnapshot `json:"nodes"`
	Crafting    *crafting.Snapshot      `json:"crafting"`
	Shop        *shop.Snapshot          `json:"shop"`
}

// Export captures the whole session for persistence.
func (s *Session) Export() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &Snapshot{
		ID:          s.id,
		CreatedAt:   s.createdAt,
		PlayerLevel: s.playerLevel,
		Credits:     s.credits,
		Inventory:   s.inventory.Export(),
		Equipment:   s.equipment.Export(),
		Resources:   s.ledger.Export(),
		Nodes:       s.field.Export(),
		Crafting:    s.book.Export(),
		Shop:        s.market.Export(),
	}
}

// Import replaces the session state with a snapshot. Components import one
// by one; a failed component import leaves later components untouched.
func (s *Session) Import(snapshot *Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot.PlayerLevel >= 1 {
		s.playerLevel = snapshot.PlayerLevel
	}
	if snapshot.Credits >= 0 {
		s.credits = snapshot.Credits
	}
	if !snapshot.CreatedAt.IsZero() {
		s.createdAt = snapshot.CreatedAt
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"inventory", func() error { return s.inventory.Import(snapshot.Inventory) }},
		{"equipment", func() error { return s.equipment.Import(snapshot.Equipment) }},
		{"resources", func() error { return s.ledger.Import(snapshot.Resources) }},
		{"nodes", func() error { return s.field.Import(snapshot.Nodes) }},
		{"crafting", func() error { return s.book.Import(snapshot.Crafting) }},
		{"shop", func() error { return s.market.Import(snapshot.Shop) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("import %s: %w", step.name, err)
		}
	}
	return nil
}
