package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Session error messages
	ErrMsgCreateSessionFailed = "Failed to create session"
	ErrMsgSaveSessionFailed   = "Failed to save session"
	ErrMsgLoadSessionFailed   = "Failed to load session"

	// Inventory operation error messages
	ErrMsgAddItemFailed      = "Failed to add item"
	ErrMsgRemoveItemFailed   = "Failed to remove item"
	ErrMsgUseItemFailed      = "Failed to use item"
	ErrMsgUpgradeItemFailed  = "Failed to upgrade item"
	ErrMsgGenerateItemFailed = "Failed to generate item"

	// Equipment operation error messages
	ErrMsgEquipItemFailed   = "Failed to equip item"
	ErrMsgUnequipItemFailed = "Failed to unequip item"

	// Resource operation error messages
	ErrMsgGenerateNodesFailed = "Failed to generate nodes"
	ErrMsgHarvestFailed       = "Failed to harvest"

	// Crafting operation error messages
	ErrMsgCraftFailed = "Failed to craft item"

	// Shop operation error messages
	ErrMsgBuyItemFailed  = "Failed to buy item"
	ErrMsgSellItemFailed = "Failed to sell item"
	ErrMsgRestockFailed  = "Failed to restock shop"
)

// Success messages for API responses
// These are user-facing success messages returned in JSON responses
const (
	MsgSessionDeletedSuccess = "Session deleted"
	MsgSessionSavedSuccess   = "Session saved"
	MsgSessionUnchanged      = "Session unchanged, save skipped"
	MsgItemAddedSuccess      = "Item added successfully"
	MsgItemRemovedSuccess    = "Item removed successfully"
	MsgShopRestockedSuccess  = "Shop restocked"
	MsgShopTypeChanged       = "Shop type changed"
)
