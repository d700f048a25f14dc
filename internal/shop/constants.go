package shop

import "time"

// Marketplace tuning
const (
	// MaxShopItems bounds a shop's generated stock.
	MaxShopItems = 12

	// RestockInterval is the accumulated update time between automatic
	// restocks.
	RestockInterval = 30 * time.Second

	// PriceMultiplier marks items up from base price to shop price.
	PriceMultiplier = 1.5

	// SellMultiplier is the fraction of base price a shop pays on buyback.
	SellMultiplier = 0.4

	// SpecialChance is the per-restock probability of one special listing.
	SpecialChance = 0.1

	// SpecialMarkup doubles the normal markup for special listings.
	SpecialMarkup = 2

	// GenerationAttempts bounds the per-slot retries at matching the
	// desired item type. A slot that misses every attempt stays unfilled.
	GenerationAttempts = 10

	// MaxDiscountRate caps any discount applied to shop prices.
	MaxDiscountRate = 0.5

	// ReputationPriceDivisor converts a purchase price into reputation.
	ReputationPriceDivisor = 100
)

// Bulk purchase discounts by item count.
const (
	BulkDiscountSmallCount = 3
	BulkDiscountSmallRate  = 0.05
	BulkDiscountLargeCount = 5
	BulkDiscountLargeRate  = 0.1
)
