package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/item"
	"github.com/kiln-games/depthforge/internal/shop"
)

func newTestFactory(t *testing.T) *item.Factory {
	t.Helper()
	catalog, err := item.NewCatalog([]domain.ItemTemplate{
		{
			Key:         "iron_sword",
			DisplayName: "Iron Sword",
			Type:        domain.ItemTypeWeapon,
			Subtype:     "melee",
			BaseEffect:  map[domain.Stat]float64{domain.StatAttack: 10},
			BasePrice:   100,
		},
		{
			Key:         "health_potion",
			DisplayName: "Health Potion",
			Type:        domain.ItemTypeConsumable,
			BaseEffect:  map[domain.Stat]float64{domain.StatHeal: 50},
			BasePrice:   50,
			Stackable:   true,
		},
		{
			Key:         "oak_log",
			DisplayName: "Oak Log",
			Type:        domain.ItemTypeMaterial,
			BasePrice:   5,
			Stackable:   true,
		},
	})
	require.NoError(t, err)
	return item.NewFactory(catalog)
}

func testRecipes() []domain.Recipe {
	return []domain.Recipe{
		{
			ID:   "wooden_sword",
			Name: "Wooden Sword",
			Type: domain.RecipeTypeWeapon,
			Requirements: map[domain.ResourceType]map[domain.Rarity]int{
				domain.ResourceWood: {domain.RarityCommon: 5},
			},
			Output: domain.RecipeOutput{
				ItemType:   domain.ItemTypeWeapon,
				Subtype:    "sword",
				Name:       "Wooden Sword",
				BaseDamage: 5,
			},
			Unlocked: true,
		},
	}
}

func newTestSession(t *testing.T) (*Session, *item.Factory) {
	t.Helper()
	f := newTestFactory(t)
	return New("session-1", f, testRecipes()), f
}

func mint(t *testing.T, f *item.Factory, key string) *domain.Item {
	t.Helper()
	it, err := f.CreateFromTemplate(key, domain.RarityCommon, 1)
	require.NoError(t, err)
	return it
}

func TestNewSessionDefaults(t *testing.T) {
	s, _ := newTestSession(t)

	assert.Equal(t, "session-1", s.ID())
	assert.Equal(t, 1, s.PlayerLevel())
	assert.Equal(t, StartingCredits, s.Credits())
	assert.False(t, s.CreatedAt().IsZero())
}

func TestSetPlayerLevel(t *testing.T) {
	s, _ := newTestSession(t)

	require.NoError(t, s.SetPlayerLevel(7))
	assert.Equal(t, 7, s.PlayerLevel())

	assert.ErrorIs(t, s.SetPlayerLevel(0), domain.ErrInvalidInput)
}

func TestAddCredits(t *testing.T) {
	s, _ := newTestSession(t)

	require.NoError(t, s.AddCredits(250))
	assert.Equal(t, StartingCredits+250, s.Credits())

	assert.ErrorIs(t, s.AddCredits(-1), domain.ErrInvalidInput)
}

func TestBuySpendsWallet(t *testing.T) {
	s, f := newTestSession(t)

	sword := mint(t, f, "iron_sword")
	err := s.With(func(state *State) error {
		return state.Market.Import(&shop.Snapshot{
			ShopType: "weapon",
			Listings: []*shop.Listing{{Item: sword, ShopPrice: 150, SellPrice: 40}},
		})
	})
	require.NoError(t, err)

	result, err := s.Buy(0)
	require.NoError(t, err)

	assert.Equal(t, 150, result.Cost)
	assert.Equal(t, StartingCredits-150, s.Credits())

	err = s.With(func(state *State) error {
		_, ok := state.Inventory.Get(sword.ID)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func TestBuyShortWallet(t *testing.T) {
	s, f := newTestSession(t)

	err := s.With(func(state *State) error {
		return state.Market.Import(&shop.Snapshot{
			ShopType: "weapon",
			Listings: []*shop.Listing{{Item: mint(t, f, "iron_sword"), ShopPrice: StartingCredits + 1}},
		})
	})
	require.NoError(t, err)

	_, err = s.Buy(0)
	assert.ErrorIs(t, err, domain.ErrInsufficientCredits)
	assert.Equal(t, StartingCredits, s.Credits())
}

func TestBuyBulkChargesDeliveredItems(t *testing.T) {
	s, f := newTestSession(t)

	err := s.With(func(state *State) error {
		return state.Market.Import(&shop.Snapshot{
			ShopType: "weapon",
			Listings: []*shop.Listing{
				{Item: mint(t, f, "iron_sword"), ShopPrice: 100},
				{Item: mint(t, f, "iron_sword"), ShopPrice: 100},
				{Item: mint(t, f, "iron_sword"), ShopPrice: 100},
			},
		})
	})
	require.NoError(t, err)

	result, err := s.BuyBulk([]int{0, 1, 2})
	require.NoError(t, err)

	// floor(100*0.95) * 3: the wallet drops by exactly the order total
	require.Len(t, result.Items, 3)
	assert.Equal(t, 285, result.TotalCost)
	assert.Equal(t, StartingCredits-285, s.Credits())

	err = s.With(func(state *State) error {
		assert.Equal(t, 3, state.Inventory.Count())
		return nil
	})
	require.NoError(t, err)
}

func TestSellCreditsWallet(t *testing.T) {
	s, f := newTestSession(t)

	potion := mint(t, f, "health_potion")
	err := s.With(func(state *State) error {
		_, err := state.Inventory.Add(potion)
		return err
	})
	require.NoError(t, err)

	result, err := s.Sell(potion.ID)
	require.NoError(t, err)

	assert.Equal(t, 20, result.Earned) // floor(50 * 0.4)
	assert.Equal(t, StartingCredits+20, s.Credits())
}

func TestSellSelectedCreditsWallet(t *testing.T) {
	s, f := newTestSession(t)

	sword := mint(t, f, "iron_sword")
	err := s.With(func(state *State) error {
		if _, err := state.Inventory.Add(sword); err != nil {
			return err
		}
		state.Inventory.ToggleSelection(sword.ID)
		return nil
	})
	require.NoError(t, err)

	result := s.SellSelected()
	assert.Equal(t, 40, result.TotalValue) // floor(100 * 0.4)
	assert.Equal(t, StartingCredits+40, s.Credits())
}

func TestUpdateRestocksShop(t *testing.T) {
	s, _ := newTestSession(t)

	err := s.With(func(state *State) error {
		return state.Market.ChangeShopType("general")
	})
	require.NoError(t, err)

	require.NoError(t, s.Update(shop.RestockInterval))

	err = s.With(func(state *State) error {
		assert.NotEmpty(t, state.Market.Listings())
		for _, listing := range state.Market.Listings() {
			if listing.Special {
				continue
			}
			assert.Contains(t,
				[]domain.ItemType{domain.ItemTypeConsumable, domain.ItemTypeMaterial},
				listing.Item.Type)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestSessionExportImport(t *testing.T) {
	s, f := newTestSession(t)

	require.NoError(t, s.SetPlayerLevel(4))
	require.NoError(t, s.AddCredits(100))

	potion := mint(t, f, "health_potion")
	err := s.With(func(state *State) error {
		if _, err := state.Inventory.Add(potion); err != nil {
			return err
		}
		return state.Ledger.Add(domain.ResourceWood, domain.RarityCommon, 12)
	})
	require.NoError(t, err)

	snapshot := s.Export()

	restored := New("session-1", newTestFactory(t), testRecipes())
	require.NoError(t, restored.Import(snapshot))

	assert.Equal(t, 4, restored.PlayerLevel())
	assert.Equal(t, StartingCredits+100, restored.Credits())

	err = restored.With(func(state *State) error {
		_, ok := state.Inventory.Get(potion.ID)
		assert.True(t, ok)
		assert.Equal(t, 12, state.Ledger.Count(domain.ResourceWood, domain.RarityCommon))
		return nil
	})
	require.NoError(t, err)

	assert.ErrorIs(t, restored.Import(nil), domain.ErrInvalidInput)
}
