package inventory

// Inventory limits and economy rates
const (
	// DefaultMaxSlots is the record capacity of a fresh inventory. A stack
	// occupies one slot regardless of quantity.
	DefaultMaxSlots = 40

	// ItemsPerPage is the fixed page window size for paged views.
	ItemsPerPage = 20

	// SellRate is the fraction of an item's price credited on sale.
	SellRate = 0.4

	// DefaultBoostDuration is the fallback duration, in seconds, for timed
	// consumable buffs that carry no explicit duration effect.
	DefaultBoostDuration = 300
)

// Upgrade material template keys
const (
	UpgradeCrystalKey = "upgrade_crystal"
	RareOreKey        = "rare_ore"
)
