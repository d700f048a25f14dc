package equipment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/inventory"
	"github.com/kiln-games/depthforge/internal/item"
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
			SetName:     "warrior_set",
		},
		{
			Key:         "war_bow",
			DisplayName: "War Bow",
			Type:        domain.ItemTypeWeapon,
			Subtype:     "ranged",
			BaseEffect:  map[domain.Stat]float64{domain.StatAttack: 14},
			BasePrice:   140,
		},
		{
			Key:         "plate_mail",
			DisplayName: "Plate Mail",
			Type:        domain.ItemTypeArmor,
			Subtype:     "body",
			BaseEffect:  map[domain.Stat]float64{domain.StatDefense: 12, domain.StatHealth: 20},
			BasePrice:   150,
			SetName:     "warrior_set",
		},
		{
			Key:         "oak_shield",
			DisplayName: "Oak Shield",
			Type:        domain.ItemTypeArmor,
			Subtype:     "shield",
			BaseEffect:  map[domain.Stat]float64{domain.StatDefense: 6},
			BasePrice:   60,
		},
		{
			Key:         "lucky_ring",
			DisplayName: "Lucky Ring",
			Type:        domain.ItemTypeAccessory,
			Subtype:     "ring",
			BaseEffect:  map[domain.Stat]float64{domain.StatLuck: 4},
			BasePrice:   90,
			Stackable:   true,
		},
		{
			Key:         "health_potion",
			DisplayName: "Health Potion",
			Type:        domain.ItemTypeConsumable,
			BaseEffect:  map[domain.Stat]float64{domain.StatHeal: 50},
			BasePrice:   50,
			Stackable:   true,
		},
	})
	require.NoError(t, err)
	return item.NewFactory(catalog)
}

func mint(t *testing.T, f *item.Factory, key string) *domain.Item {
	t.Helper()
	it, err := f.CreateFromTemplate(key, domain.RarityCommon, 1)
	require.NoError(t, err)
	return it
}

func addTo(t *testing.T, inv *inventory.Store, it *domain.Item) {
	t.Helper()
	_, err := inv.Add(it)
	require.NoError(t, err)
}

func TestCanEquip(t *testing.T) {
	f := newTestFactory(t)
	b := NewBoard(f)

	sword := mint(t, f, "iron_sword")
	ring := mint(t, f, "lucky_ring")
	shield := mint(t, f, "oak_shield")
	potion := mint(t, f, "health_potion")

	assert.True(t, b.CanEquip(sword, SlotWeapon))
	assert.False(t, b.CanEquip(sword, SlotArmor))
	assert.True(t, b.CanEquip(ring, SlotAccessory1))
	assert.True(t, b.CanEquip(ring, SlotAccessory2))
	assert.True(t, b.CanEquip(shield, SlotShield))
	// armor type without body subtype does not fit the armor slot
	assert.False(t, b.CanEquip(shield, SlotArmor))
	assert.False(t, b.CanEquip(potion, SlotWeapon))
	assert.False(t, b.CanEquip(sword, SlotName("helmet")))
}

func TestAvailableSlots(t *testing.T) {
	f := newTestFactory(t)
	b := NewBoard(f)

	ring := mint(t, f, "lucky_ring")
	assert.Equal(t, []SlotName{SlotAccessory1, SlotAccessory2}, b.AvailableSlots(ring))

	potion := mint(t, f, "health_potion")
	assert.Empty(t, b.AvailableSlots(potion))
}

func TestEquip(t *testing.T) {
	t.Run("moves the item out of inventory", func(t *testing.T) {
		f := newTestFactory(t)
		b := NewBoard(f)
		inv := inventory.NewStore(f)

		sword := mint(t, f, "iron_sword")
		addTo(t, inv, sword)

		res, err := b.Equip(sword, SlotWeapon, inv)
		require.NoError(t, err)
		assert.Equal(t, sword.ID, res.Equipped.ID)
		assert.Nil(t, res.Unequipped)
		assert.Equal(t, 0, inv.Count())

		equipped, ok := b.ItemInSlot(SlotWeapon)
		require.True(t, ok)
		assert.Equal(t, sword.ID, equipped.ID)
	})

	t.Run("incompatible slot fails", func(t *testing.T) {
		f := newTestFactory(t)
		b := NewBoard(f)
		inv := inventory.NewStore(f)

		sword := mint(t, f, "iron_sword")
		addTo(t, inv, sword)

		_, err := b.Equip(sword, SlotBoots, inv)
		assert.ErrorIs(t, err, domain.ErrSlotIncompatible)
		assert.Equal(t, 1, inv.Count())
	})

	t.Run("item outside the inventory fails", func(t *testing.T) {
		f := newTestFactory(t)
		b := NewBoard(f)
		inv := inventory.NewStore(f)

		sword := mint(t, f, "iron_sword")

		_, err := b.Equip(sword, SlotWeapon, inv)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("previous occupant cascades back into inventory", func(t *testing.T) {
		f := newTestFactory(t)
		b := NewBoard(f)
		inv := inventory.NewStore(f)

		sword := mint(t, f, "iron_sword")
		bow := mint(t, f, "war_bow")
		addTo(t, inv, sword)
		addTo(t, inv, bow)

		_, err := b.Equip(sword, SlotWeapon, inv)
		require.NoError(t, err)

		res, err := b.Equip(bow, SlotWeapon, inv)
		require.NoError(t, err)
		assert.Equal(t, sword.ID, res.Unequipped.ID)

		_, ok := inv.Get(sword.ID)
		assert.True(t, ok)
		equipped, _ := b.ItemInSlot(SlotWeapon)
		assert.Equal(t, bow.ID, equipped.ID)
	})

	t.Run("stack equips a single split-off unit", func(t *testing.T) {
		f := newTestFactory(t)
		b := NewBoard(f)
		inv := inventory.NewStore(f)

		rings := mint(t, f, "lucky_ring")
		rings.Quantity = 3
		addTo(t, inv, rings)

		res, err := b.Equip(rings, SlotAccessory1, inv)
		require.NoError(t, err)

		assert.NotEqual(t, rings.ID, res.Equipped.ID)
		assert.Equal(t, 1, res.Equipped.Quantity)

		remaining, ok := inv.Get(rings.ID)
		require.True(t, ok)
		assert.Equal(t, 2, remaining.Quantity)
	})
}

func TestUnequip(t *testing.T) {
	t.Run("returns the item to inventory", func(t *testing.T) {
		f := newTestFactory(t)
		b := NewBoard(f)
		inv := inventory.NewStore(f)

		sword := mint(t, f, "iron_sword")
		addTo(t, inv, sword)
		_, err := b.Equip(sword, SlotWeapon, inv)
		require.NoError(t, err)

		returned, err := b.Unequip(SlotWeapon, inv)
		require.NoError(t, err)
		assert.Equal(t, sword.ID, returned.ID)
		assert.Equal(t, 1, inv.Count())

		_, ok := b.ItemInSlot(SlotWeapon)
		assert.False(t, ok)
	})

	t.Run("empty slot fails", func(t *testing.T) {
		f := newTestFactory(t)
		b := NewBoard(f)
		inv := inventory.NewStore(f)

		_, err := b.Unequip(SlotWeapon, inv)
		assert.ErrorIs(t, err, domain.ErrSlotEmpty)
	})

	t.Run("re-merges into a matching stack", func(t *testing.T) {
		f := newTestFactory(t)
		b := NewBoard(f)
		inv := inventory.NewStore(f)

		rings := mint(t, f, "lucky_ring")
		rings.Quantity = 3
		addTo(t, inv, rings)

		_, err := b.Equip(rings, SlotAccessory1, inv)
		require.NoError(t, err)

		_, err = b.Unequip(SlotAccessory1, inv)
		require.NoError(t, err)

		assert.Equal(t, 1, inv.Count())
		restored, ok := inv.Get(rings.ID)
		require.True(t, ok)
		assert.Equal(t, 3, restored.Quantity)
	})

	t.Run("full inventory surfaces the overflow and keeps the item equipped", func(t *testing.T) {
		f := newTestFactory(t)
		b := NewBoard(f)
		inv := inventory.NewStoreWithCapacity(f, 1)

		sword := mint(t, f, "iron_sword")
		addTo(t, inv, sword)
		_, err := b.Equip(sword, SlotWeapon, inv)
		require.NoError(t, err)

		addTo(t, inv, mint(t, f, "war_bow"))

		_, err = b.Unequip(SlotWeapon, inv)
		assert.ErrorIs(t, err, domain.ErrInventoryFull)

		_, ok := b.ItemInSlot(SlotWeapon)
		assert.True(t, ok)
	})
}

func TestTotalStats(t *testing.T) {
	f := newTestFactory(t)
	b := NewBoard(f)
	inv := inventory.NewStore(f)

	sword := mint(t, f, "iron_sword")
	sword.Enchantments = []domain.Enchantment{
		{Name: "Minor Attack Boost", Effect: map[domain.Stat]float64{domain.StatAttack: 2}},
	}
	mail := mint(t, f, "plate_mail")
	addTo(t, inv, sword)
	addTo(t, inv, mail)

	_, err := b.Equip(sword, SlotWeapon, inv)
	require.NoError(t, err)
	_, err = b.Equip(mail, SlotArmor, inv)
	require.NoError(t, err)

	stats := b.TotalStats()
	assert.Equal(t, float64(12), stats[domain.StatAttack]) // 10 base + 2 enchant
	assert.Equal(t, float64(12), stats[domain.StatDefense])
	assert.Equal(t, float64(20), stats[domain.StatHealth])
}

func TestTotalStatsIgnoresUnknownKeys(t *testing.T) {
	f := newTestFactory(t)
	b := NewBoard(f)
	inv := inventory.NewStore(f)

	sword := mint(t, f, "iron_sword")
	sword.Effects["cuteness"] = 99
	addTo(t, inv, sword)

	_, err := b.Equip(sword, SlotWeapon, inv)
	require.NoError(t, err)

	stats := b.TotalStats()
	_, present := stats[domain.Stat("cuteness")]
	assert.False(t, present)
}

func TestSetBonuses(t *testing.T) {
	f := newTestFactory(t)
	b := NewBoard(f)
	inv := inventory.NewStore(f)

	sword := mint(t, f, "iron_sword") // warrior_set
	mail := mint(t, f, "plate_mail")  // warrior_set
	addTo(t, inv, sword)
	addTo(t, inv, mail)

	t.Run("single piece grants nothing", func(t *testing.T) {
		_, err := b.Equip(sword, SlotWeapon, inv)
		require.NoError(t, err)
		assert.Empty(t, b.SetBonuses())
	})

	t.Run("two pieces unlock the first tier", func(t *testing.T) {
		_, err := b.Equip(mail, SlotArmor, inv)
		require.NoError(t, err)

		bonuses := b.SetBonuses()
		require.Contains(t, bonuses, "warrior_set")
		assert.Equal(t, float64(5), bonuses["warrior_set"][domain.StatAttack])
		assert.Equal(t, float64(3), bonuses["warrior_set"][domain.StatDefense])
	})
}

func TestSetBonusesCumulative(t *testing.T) {
	def := DefaultSets()["warrior_set"]

	bonus := cumulativeSetBonus(def, 4)
	// tiers 2 and 4 both contribute
	assert.Equal(t, float64(17), bonus[domain.StatAttack])
	assert.Equal(t, float64(11), bonus[domain.StatDefense])
	assert.Equal(t, 0.1, bonus[domain.StatCritRate])

	assert.Nil(t, cumulativeSetBonus(def, 1))
}

func TestAutoEquip(t *testing.T) {
	t.Run("fills empty slots and upgrades weaker gear", func(t *testing.T) {
		f := newTestFactory(t)
		b := NewBoard(f)
		inv := inventory.NewStore(f)

		sword := mint(t, f, "iron_sword") // score 10
		bow := mint(t, f, "war_bow")      // score 14
		mail := mint(t, f, "plate_mail")
		addTo(t, inv, sword)
		addTo(t, inv, bow)
		addTo(t, inv, mail)

		changes := b.AutoEquip(inv)
		require.Len(t, changes, 2)

		weapon, _ := b.ItemInSlot(SlotWeapon)
		assert.Equal(t, bow.ID, weapon.ID)
		armor, _ := b.ItemInSlot(SlotArmor)
		assert.Equal(t, mail.ID, armor.ID)

		// the weaker sword stays in inventory
		_, ok := inv.Get(sword.ID)
		assert.True(t, ok)
	})

	t.Run("keeps the occupant on a score tie", func(t *testing.T) {
		f := newTestFactory(t)
		b := NewBoard(f)
		inv := inventory.NewStore(f)

		first := mint(t, f, "iron_sword")
		second := mint(t, f, "iron_sword")
		addTo(t, inv, first)

		_, err := b.Equip(first, SlotWeapon, inv)
		require.NoError(t, err)
		addTo(t, inv, second)

		changes := b.AutoEquip(inv)
		assert.Empty(t, changes)

		weapon, _ := b.ItemInSlot(SlotWeapon)
		assert.Equal(t, first.ID, weapon.ID)
	})
}

func TestItemScore(t *testing.T) {
	f := newTestFactory(t)

	sword := mint(t, f, "iron_sword")
	assert.Equal(t, float64(10), ItemScore(sword))

	mail := mint(t, f, "plate_mail")
	// 12 defense * 0.8 + 20 health * 0.3
	assert.InDelta(t, 15.6, ItemScore(mail), 1e-9)

	assert.Equal(t, float64(0), ItemScore(nil))
}

func TestUpgradeEquipped(t *testing.T) {
	f := newTestFactory(t)
	b := NewBoard(f)
	inv := inventory.NewStore(f)

	sword := mint(t, f, "iron_sword")
	addTo(t, inv, sword)
	_, err := b.Equip(sword, SlotWeapon, inv)
	require.NoError(t, err)

	upgraded, err := b.UpgradeEquipped(SlotWeapon)
	require.NoError(t, err)
	assert.Equal(t, 1, upgraded.UpgradeLevel)

	_, err = b.UpgradeEquipped(SlotShield)
	assert.ErrorIs(t, err, domain.ErrSlotEmpty)
}

func TestBoardExportImport(t *testing.T) {
	f := newTestFactory(t)
	b := NewBoard(f)
	inv := inventory.NewStore(f)

	sword := mint(t, f, "iron_sword")
	addTo(t, inv, sword)
	_, err := b.Equip(sword, SlotWeapon, inv)
	require.NoError(t, err)

	snapshot := b.Export()
	require.Len(t, snapshot.Slots, 1)

	restored := NewBoard(f)
	require.NoError(t, restored.Import(snapshot))
	equipped, ok := restored.ItemInSlot(SlotWeapon)
	require.True(t, ok)
	assert.Equal(t, sword.ID, equipped.ID)

	assert.Error(t, restored.Import(&Snapshot{Slots: map[SlotName]*domain.Item{"hat": sword}}))
}
