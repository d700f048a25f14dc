package inventory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-games/depthforge/internal/domain"
)

func TestSortModes(t *testing.T) {
	f := newTestFactory(t)
	s := NewStore(f)

	sword := mint(t, f, "iron_sword")
	armor := mint(t, f, "leather_armor")
	armor.Rarity = domain.RarityEpic
	potion := mint(t, f, "health_potion")
	for _, it := range []*domain.Item{sword, armor, potion} {
		_, err := s.Add(it)
		require.NoError(t, err)
	}

	t.Run("by type", func(t *testing.T) {
		require.NoError(t, s.SetSortMode(SortByType))
		sorted := s.Sorted()
		assert.Equal(t, domain.ItemTypeArmor, sorted[0].Type)
		assert.Equal(t, domain.ItemTypeConsumable, sorted[1].Type)
		assert.Equal(t, domain.ItemTypeWeapon, sorted[2].Type)
	})

	t.Run("by rarity descending", func(t *testing.T) {
		require.NoError(t, s.SetSortMode(SortByRarity))
		sorted := s.Sorted()
		assert.Equal(t, domain.RarityEpic, sorted[0].Rarity)
	})

	t.Run("by price descending", func(t *testing.T) {
		require.NoError(t, s.SetSortMode(SortByPrice))
		sorted := s.Sorted()
		assert.Equal(t, "Iron Sword", sorted[0].DisplayName)
		assert.Equal(t, "Health Potion", sorted[2].DisplayName)
	})

	t.Run("invalid mode is rejected", func(t *testing.T) {
		assert.ErrorIs(t, s.SetSortMode("weight"), domain.ErrInvalidInput)
	})

	t.Run("views never reorder storage", func(t *testing.T) {
		items := s.Items()
		assert.Equal(t, sword.ID, items[0].ID)
	})
}

func TestFilter(t *testing.T) {
	f := newTestFactory(t)
	s := NewStore(f)

	for _, key := range []string{"iron_sword", "leather_armor", "health_potion"} {
		_, err := s.Add(mint(t, f, key))
		require.NoError(t, err)
	}

	require.NoError(t, s.SetFilter(FilterType(domain.ItemTypeWeapon)))
	filtered := s.Filtered()
	require.Len(t, filtered, 1)
	assert.Equal(t, domain.ItemTypeWeapon, filtered[0].Type)

	require.NoError(t, s.SetFilter(FilterAll))
	assert.Len(t, s.Filtered(), 3)

	assert.ErrorIs(t, s.SetFilter("vehicle"), domain.ErrInvalidInput)
}

func TestPaging(t *testing.T) {
	f := newTestFactory(t)
	s := NewStore(f)

	// 25 distinct records: 2 pages at 20 per page
	for i := 0; i < 25; i++ {
		sword := mint(t, f, "iron_sword")
		sword.DisplayName = fmt.Sprintf("Iron Sword %02d", i)
		_, err := s.Add(sword)
		require.NoError(t, err)
	}

	page := s.Page()
	assert.Len(t, page.Items, ItemsPerPage)
	assert.Equal(t, 0, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 25, page.TotalItems)

	assert.True(t, s.NextPage())
	page = s.Page()
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 1, page.CurrentPage)

	assert.False(t, s.NextPage())
	assert.True(t, s.PreviousPage())
	assert.False(t, s.PreviousPage())
}

func TestPagingResetsOnViewChange(t *testing.T) {
	f := newTestFactory(t)
	s := NewStore(f)

	for i := 0; i < 25; i++ {
		_, err := s.Add(mint(t, f, "iron_sword"))
		require.NoError(t, err)
	}

	require.True(t, s.NextPage())
	require.NoError(t, s.SetSortMode(SortByName))
	assert.Equal(t, 0, s.Page().CurrentPage)
}

func TestSearch(t *testing.T) {
	f := newTestFactory(t)
	s := NewStore(f)

	for _, key := range []string{"iron_sword", "health_potion"} {
		_, err := s.Add(mint(t, f, key))
		require.NoError(t, err)
	}

	assert.Len(t, s.Search("sword"), 1)
	assert.Len(t, s.Search("CONSUMABLE"), 1)
	assert.Len(t, s.Search(""), 2)
	assert.Empty(t, s.Search("shield"))
}

func TestSummary(t *testing.T) {
	f := newTestFactory(t)
	s := NewStore(f)

	sword := mint(t, f, "iron_sword")
	potion := mint(t, f, "health_potion")
	for _, it := range []*domain.Item{sword, potion} {
		_, err := s.Add(it)
		require.NoError(t, err)
	}
	s.ToggleSelection(sword.ID)

	summary := s.Summary()
	assert.Equal(t, 2, summary.TotalItems)
	assert.Equal(t, DefaultMaxSlots-2, summary.FreeSlots)
	assert.Equal(t, 150, summary.TotalValue)
	assert.Equal(t, 1, summary.ItemsByType[domain.ItemTypeWeapon])
	assert.Equal(t, 1, summary.ItemsByRarity[domain.RarityCommon])
	assert.Equal(t, 1, summary.SelectedCount)
}

func TestOrganize(t *testing.T) {
	f := newTestFactory(t)
	s := NewStore(f)

	// two mergeable potion stacks and a sword, deliberately out of order
	a := mint(t, f, "health_potion")
	a.Quantity = 2
	b := mint(t, f, "iron_sword")
	c := mint(t, f, "health_potion")
	c.Quantity = 3
	c.Rarity = domain.RarityRare

	d := mint(t, f, "health_potion")
	d.Quantity = 1

	for _, it := range []*domain.Item{a, b, c, d} {
		s.items = append(s.items, it)
	}

	count := s.Organize()
	assert.Equal(t, 3, count)

	items := s.Items()
	// stacks first, rarity descending
	assert.Equal(t, domain.RarityRare, items[0].Rarity)
	assert.Equal(t, 3, items[1].Quantity) // a+d merged
	assert.Equal(t, b.ID, items[2].ID)
}

func TestExportImport(t *testing.T) {
	f := newTestFactory(t)
	s := NewStore(f)

	_, err := s.Add(mint(t, f, "iron_sword"))
	require.NoError(t, err)
	require.NoError(t, s.SetSortMode(SortByPrice))

	snapshot := s.Export()
	require.Len(t, snapshot.Items, 1)

	restored := NewStore(f)
	require.NoError(t, restored.Import(snapshot))
	assert.Equal(t, 1, restored.Count())
	assert.Equal(t, SortByPrice, restored.sortMode)

	assert.ErrorIs(t, restored.Import(nil), domain.ErrInvalidInput)
}
