package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	ErrMsgUnknownTemplate = "unknown item template"
	ErrMsgItemNotFound    = "item not found"
	ErrMsgInventoryFull   = "inventory is full"
	ErrMsgNotConsumable   = "item is not consumable"
	ErrMsgNotStackable    = "item is not stackable"
	ErrMsgUpgradeMaxed    = "item is already at max upgrade level"

	ErrMsgInsufficientResources = "insufficient resources"
	ErrMsgInsufficientCredits   = "insufficient credits"
	ErrMsgInsufficientMaterials = "insufficient materials"
	ErrMsgStorageFull           = "resource storage is full"
	ErrMsgInsufficientStamina   = "insufficient stamina"

	ErrMsgSlotIncompatible = "item cannot be equipped in that slot"
	ErrMsgSlotEmpty        = "nothing is equipped in that slot"

	ErrMsgRecipeNotFound = "recipe not found"
	ErrMsgRecipeLocked   = "recipe is locked"

	ErrMsgListingNotFound = "shop listing not found"
	ErrMsgUnknownShopType = "unknown shop type"

	ErrMsgSessionNotFound = "session not found"
	ErrMsgInvalidInput    = "invalid input"
)

// Common domain errors.
// These errors should be used consistently across all layers of the
// application. Wrap them with fmt.Errorf("%w: %s", domain.ErrXxx, details)
// for additional context.
var (
	ErrUnknownTemplate = errors.New(ErrMsgUnknownTemplate)
	ErrItemNotFound    = errors.New(ErrMsgItemNotFound)
	ErrInventoryFull   = errors.New(ErrMsgInventoryFull)
	ErrNotConsumable   = errors.New(ErrMsgNotConsumable)
	ErrNotStackable    = errors.New(ErrMsgNotStackable)
	ErrUpgradeMaxed    = errors.New(ErrMsgUpgradeMaxed)

	ErrInsufficientResources = errors.New(ErrMsgInsufficientResources)
	ErrInsufficientCredits   = errors.New(ErrMsgInsufficientCredits)
	ErrInsufficientMaterials = errors.New(ErrMsgInsufficientMaterials)
	ErrStorageFull           = errors.New(ErrMsgStorageFull)
	ErrInsufficientStamina   = errors.New(ErrMsgInsufficientStamina)

	ErrSlotIncompatible = errors.New(ErrMsgSlotIncompatible)
	ErrSlotEmpty        = errors.New(ErrMsgSlotEmpty)

	ErrRecipeNotFound = errors.New(ErrMsgRecipeNotFound)
	ErrRecipeLocked   = errors.New(ErrMsgRecipeLocked)

	ErrListingNotFound = errors.New(ErrMsgListingNotFound)
	ErrUnknownShopType = errors.New(ErrMsgUnknownShopType)

	ErrSessionNotFound = errors.New(ErrMsgSessionNotFound)
	ErrInvalidInput    = errors.New(ErrMsgInvalidInput)
)

// InsufficientResourcesError carries the per-resource shortfall of a failed
// craft. It matches ErrInsufficientResources under errors.Is.
type InsufficientResourcesError struct {
	Missing map[ResourceType]map[Rarity]int
}

func (e *InsufficientResourcesError) Error() string {
	return fmt.Sprintf("%s: missing %v", ErrMsgInsufficientResources, e.Missing)
}

func (e *InsufficientResourcesError) Unwrap() error { return ErrInsufficientResources }

// InsufficientCreditsError reports a failed purchase with the required and
// available amounts. It matches ErrInsufficientCredits under errors.Is.
type InsufficientCreditsError struct {
	Required  int
	Available int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("%s: required %d, available %d", ErrMsgInsufficientCredits, e.Required, e.Available)
}

func (e *InsufficientCreditsError) Unwrap() error { return ErrInsufficientCredits }

// InsufficientMaterialsError reports a failed upgrade with the required and
// available material counts, keyed by template key. It matches
// ErrInsufficientMaterials under errors.Is.
type InsufficientMaterialsError struct {
	Required  map[string]int
	Available map[string]int
}

func (e *InsufficientMaterialsError) Error() string {
	return fmt.Sprintf("%s: required %v, available %v", ErrMsgInsufficientMaterials, e.Required, e.Available)
}

func (e *InsufficientMaterialsError) Unwrap() error { return ErrInsufficientMaterials }
