package handler

import (
	"fmt"
	"net/http"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/event"
	"github.com/kiln-games/depthforge/internal/inventory"
	"github.com/kiln-games/depthforge/internal/item"
	"github.com/kiln-games/depthforge/internal/logger"
	"github.com/kiln-games/depthforge/internal/session"
)

type GetInventoryResponse struct {
	Page    *inventory.PageView `json:"page"`
	Summary *inventory.Summary  `json:"summary"`
	Credits int                 `json:"credits"`
}

// HandleGetInventory returns the current inventory page
// @Summary Get inventory
// @Description Get the current inventory page, optionally changing sort, filter or page
// @Tags inventory
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param sort query string false "Sort mode (type, rarity, name, price)"
// @Param filter query string false "Filter by item type, or 'all'"
// @Param page query string false "Page navigation (next, prev)"
// @Success 200 {object} GetInventoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/inventory [get]
func HandleGetInventory(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		sortMode := r.URL.Query().Get("sort")
		filter := r.URL.Query().Get("filter")
		page := r.URL.Query().Get("page")

		var resp GetInventoryResponse
		err := sess.With(func(state *session.State) error {
			if sortMode != "" {
				if err := state.Inventory.SetSortMode(inventory.SortMode(sortMode)); err != nil {
					return err
				}
			}
			if filter != "" {
				if err := state.Inventory.SetFilter(inventory.FilterType(filter)); err != nil {
					return err
				}
			}
			switch page {
			case "next":
				state.Inventory.NextPage()
			case "prev":
				state.Inventory.PreviousPage()
			}

			resp.Page = state.Inventory.Page()
			resp.Summary = state.Inventory.Summary()
			resp.Credits = state.Credits
			return nil
		})
		if err != nil {
			log.Warn("Failed to get inventory", "session_id", sess.ID(), "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, resp)
	}
}

type AddItemRequest struct {
	TemplateKey string `json:"template_key" validate:"required,max=100"`
	Rarity      string `json:"rarity" validate:"required,rarity"`
	Level       int    `json:"level" validate:"omitempty,min=1,max=1000"`
}

type AddItemResponse struct {
	Item    *domain.Item `json:"item"`
	Stacked bool         `json:"stacked"`
}

// HandleAddItem mints a catalog item into the inventory
// @Summary Add item to inventory
// @Description Create an item from a catalog template and add it to the inventory
// @Tags inventory
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body AddItemRequest true "Item details"
// @Success 200 {object} AddItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/inventory/add [post]
func HandleAddItem(manager *session.Manager, factory *item.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req AddItemRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var resp AddItemResponse
		err := sess.With(func(state *session.State) error {
			level := req.Level
			if level < 1 {
				level = state.PlayerLevel
			}

			it, err := factory.CreateFromTemplate(req.TemplateKey, domain.Rarity(req.Rarity), level)
			if err != nil {
				return err
			}
			result, err := state.Inventory.Add(it)
			if err != nil {
				return err
			}
			resp.Item = it
			resp.Stacked = result.Stacked
			return nil
		})
		if err != nil {
			log.Warn("Failed to add item", "session_id", sess.ID(), "template", req.TemplateKey, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Item added", "session_id", sess.ID(), "template", req.TemplateKey, "rarity", req.Rarity)

		respondJSON(w, http.StatusOK, resp)
	}
}

type RemoveItemRequest struct {
	ItemID   string `json:"item_id" validate:"required,max=100"`
	Quantity int    `json:"quantity" validate:"omitempty,min=1,max=10000"`
}

type RemoveItemResponse struct {
	Remaining int `json:"remaining"`
}

// HandleRemoveItem removes an item or part of a stack
// @Summary Remove item from inventory
// @Description Remove units of an item; stacks decrement in place
// @Tags inventory
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body RemoveItemRequest true "Item details"
// @Success 200 {object} RemoveItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/inventory/remove [post]
func HandleRemoveItem(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req RemoveItemRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var resp RemoveItemResponse
		err := sess.With(func(state *session.State) error {
			result, err := state.Inventory.Remove(req.ItemID, req.Quantity)
			if err != nil {
				return err
			}
			resp.Remaining = result.Remaining
			return nil
		})
		if err != nil {
			log.Warn("Failed to remove item", "session_id", sess.ID(), "item_id", req.ItemID, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Item removed", "session_id", sess.ID(), "item_id", req.ItemID, "remaining", resp.Remaining)

		respondJSON(w, http.StatusOK, resp)
	}
}

type UseItemRequest struct {
	ItemID string `json:"item_id" validate:"required,max=100"`
}

type UseItemResponse struct {
	Effects *inventory.EffectBundle `json:"effects"`
}

// HandleUseItem consumes a consumable and returns its effects
// @Summary Use item
// @Description Consume one unit of a consumable item
// @Tags inventory
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body UseItemRequest true "Item to use"
// @Success 200 {object} UseItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/inventory/use [post]
func HandleUseItem(manager *session.Manager, eventBus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req UseItemRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var resp UseItemResponse
		var used *domain.Item
		err := sess.With(func(state *session.State) error {
			it, ok := state.Inventory.Get(req.ItemID)
			if ok {
				copied := *it
				used = &copied
			}
			bundle, err := state.Inventory.UseItem(req.ItemID)
			if err != nil {
				return err
			}
			resp.Effects = bundle
			return nil
		})
		if err != nil {
			log.Warn("Failed to use item", "session_id", sess.ID(), "item_id", req.ItemID, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Item used", "session_id", sess.ID(), "item_id", req.ItemID)

		if used != nil {
			if err := eventBus.Publish(r.Context(), event.NewItemEvent(event.ItemUsed, sess.ID(), used.TemplateKey, string(used.Rarity), 0)); err != nil {
				log.Error("Failed to publish item.used event", "error", err)
			}
		}

		respondJSON(w, http.StatusOK, resp)
	}
}

type UpgradeItemRequest struct {
	ItemID string `json:"item_id" validate:"required,max=100"`
}

type UpgradeItemResponse struct {
	Item *domain.Item `json:"item"`
}

// HandleUpgradeItem upgrades an inventory item by one level
// @Summary Upgrade item
// @Description Upgrade an item one level, consuming upgrade materials from the inventory
// @Tags inventory
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body UpgradeItemRequest true "Item to upgrade"
// @Success 200 {object} UpgradeItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/inventory/upgrade [post]
func HandleUpgradeItem(manager *session.Manager, eventBus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req UpgradeItemRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var resp UpgradeItemResponse
		err := sess.With(func(state *session.State) error {
			it, err := state.Inventory.Upgrade(req.ItemID)
			if err != nil {
				return err
			}
			resp.Item = it
			return nil
		})
		if err != nil {
			log.Warn("Failed to upgrade item", "session_id", sess.ID(), "item_id", req.ItemID, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Item upgraded",
			"session_id", sess.ID(),
			"item_id", req.ItemID,
			"upgrade_level", resp.Item.UpgradeLevel)

		if err := eventBus.Publish(r.Context(), event.NewItemEvent(event.ItemUpgraded, sess.ID(), resp.Item.TemplateKey, string(resp.Item.Rarity), 0)); err != nil {
			log.Error("Failed to publish item.upgraded event", "error", err)
		}

		respondJSON(w, http.StatusOK, resp)
	}
}

type SelectItemRequest struct {
	ItemID string `json:"item_id" validate:"omitempty,max=100"`
	Clear  bool   `json:"clear,omitempty"`
}

type SelectItemResponse struct {
	SelectedCount int `json:"selected_count"`
}

// HandleSelectItem toggles an item's bulk-sell selection
// @Summary Toggle item selection
// @Description Toggle an item's selection for bulk selling, or clear the selection
// @Tags inventory
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body SelectItemRequest true "Item to toggle"
// @Success 200 {object} SelectItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/inventory/select [post]
func HandleSelectItem(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req SelectItemRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var resp SelectItemResponse
		_ = sess.With(func(state *session.State) error {
			if req.Clear {
				state.Inventory.ClearSelection()
			} else if req.ItemID != "" {
				state.Inventory.ToggleSelection(req.ItemID)
			}
			resp.SelectedCount = len(state.Inventory.SelectedItems())
			return nil
		})

		respondJSON(w, http.StatusOK, resp)
	}
}

// HandleSellSelected sells every selected item and credits the wallet
// @Summary Sell selected items
// @Description Sell all selected items at the sell rate
// @Tags inventory
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} inventory.SellResult
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/inventory/sell-selected [post]
func HandleSellSelected(manager *session.Manager, eventBus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		result := sess.SellSelected()

		log.Info("Selected items sold",
			"session_id", sess.ID(),
			"item_count", result.ItemCount,
			"total_value", result.TotalValue)

		for _, sold := range result.Sold {
			if err := eventBus.Publish(r.Context(), event.NewItemEvent(event.ItemSold, sess.ID(), sold.Name, "", sold.Price)); err != nil {
				log.Error("Failed to publish item.sold event", "error", err)
			}
		}

		respondJSON(w, http.StatusOK, result)
	}
}

type SortInventoryRequest struct {
	Mode string `json:"mode" validate:"omitempty,max=20"`
}

type SortInventoryResponse struct {
	Page *inventory.PageView `json:"page"`
}

// HandleSortInventory changes the inventory sort mode
// @Summary Sort inventory
// @Description Change the inventory sort mode and return the first page
// @Tags inventory
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body SortInventoryRequest true "Sort mode"
// @Success 200 {object} SortInventoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/inventory/sort [post]
func HandleSortInventory(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req SortInventoryRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var resp SortInventoryResponse
		err := sess.With(func(state *session.State) error {
			if req.Mode != "" {
				if err := state.Inventory.SetSortMode(inventory.SortMode(req.Mode)); err != nil {
					return err
				}
			}
			resp.Page = state.Inventory.Page()
			return nil
		})
		if err != nil {
			log.Warn("Failed to sort inventory", "session_id", sess.ID(), "mode", req.Mode, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, resp)
	}
}

type OrganizeInventoryResponse struct {
	Merged int                 `json:"merged"`
	Page   *inventory.PageView `json:"page"`
}

// HandleOrganizeInventory re-stacks duplicates and orders the inventory
// @Summary Organize inventory
// @Description Merge duplicate stacks and order items by rarity, type and name
// @Tags inventory
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} OrganizeInventoryResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/inventory/organize [post]
func HandleOrganizeInventory(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var resp OrganizeInventoryResponse
		_ = sess.With(func(state *session.State) error {
			resp.Merged = state.Inventory.Organize()
			resp.Page = state.Inventory.Page()
			return nil
		})

		log.Info("Inventory organized", "session_id", sess.ID(), "merged", resp.Merged)

		respondJSON(w, http.StatusOK, resp)
	}
}

type SearchInventoryResponse struct {
	Items []*domain.Item `json:"items"`
}

// HandleSearchInventory searches the inventory by name, description or type
// @Summary Search inventory
// @Description Case-insensitive search over item names, descriptions and types
// @Tags inventory
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param q query string true "Search query"
// @Success 200 {object} SearchInventoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/inventory/search [get]
func HandleSearchInventory(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		query := r.URL.Query().Get("q")
		if query == "" {
			log.Warn("Missing q query parameter")
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingQueryParam, "q"))
			return
		}

		var resp SearchInventoryResponse
		_ = sess.With(func(state *session.State) error {
			resp.Items = state.Inventory.Search(query)
			return nil
		})

		respondJSON(w, http.StatusOK, resp)
	}
}
