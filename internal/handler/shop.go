package handler

import (
	"net/http"

	"github.com/kiln-games/depthforge/internal/event"
	"github.com/kiln-games/depthforge/internal/logger"
	"github.com/kiln-games/depthforge/internal/session"
	"github.com/kiln-games/depthforge/internal/shop"
)

// HandleGetShop returns the shop's stock and reputation standing
// @Summary Get shop
// @Description Get the shop's listings, discount rate and reputation tier
// @Tags shop
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} shop.Info
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/shop [get]
func HandleGetShop(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var info *shop.Info
		_ = sess.With(func(state *session.State) error {
			info = state.Market.ShopInfo()
			return nil
		})

		respondJSON(w, http.StatusOK, info)
	}
}

type ShopTypesResponse struct {
	Types []string `json:"types"`
}

// HandleGetShopTypes lists the available shop archetypes
// @Summary List shop types
// @Description List the shop archetypes a shop can change to
// @Tags shop
// @Produce json
// @Success 200 {object} ShopTypesResponse
// @Router /shop/types [get]
func HandleGetShopTypes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, ShopTypesResponse{Types: shop.AvailableShopTypes()})
	}
}

type BuyItemRequest struct {
	Index int `json:"index" validate:"min=0,max=100"`
}

type BuyItemResponse struct {
	Result  *shop.BuyResult `json:"result"`
	Credits int             `json:"credits"`
}

// HandleBuyItem purchases a shop listing
// @Summary Buy item
// @Description Buy the listing at the given index with session credits
// @Tags shop
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body BuyItemRequest true "Listing index"
// @Success 200 {object} BuyItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/shop/buy [post]
func HandleBuyItem(manager *session.Manager, eventBus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req BuyItemRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		result, err := sess.Buy(req.Index)
		if err != nil {
			log.Warn("Failed to buy item", "session_id", sess.ID(), "index", req.Index, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Item purchased",
			"session_id", sess.ID(),
			"item", result.Item.DisplayName,
			"cost", result.Cost,
			"reputation_gained", result.ReputationGained)

		if err := eventBus.Publish(r.Context(), event.NewItemEvent(event.ItemPurchased, sess.ID(), result.Item.TemplateKey, string(result.Item.Rarity), result.Cost)); err != nil {
			log.Error("Failed to publish item.purchased event", "error", err)
		}

		respondJSON(w, http.StatusOK, BuyItemResponse{Result: result, Credits: sess.Credits()})
	}
}

type BuyBulkRequest struct {
	Indices []int `json:"indices" validate:"required,min=1,max=100,dive,min=0,max=100"`
}

type BuyBulkResponse struct {
	Result  *shop.BulkResult `json:"result"`
	Credits int              `json:"credits"`
}

// HandleBuyBulk purchases several listings with a quantity discount
// @Summary Buy items in bulk
// @Description Buy several listings at once; 3+ items get 5% off, 5+ get 10%
// @Tags shop
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body BuyBulkRequest true "Listing indices"
// @Success 200 {object} BuyBulkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/shop/buy-bulk [post]
func HandleBuyBulk(manager *session.Manager, eventBus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req BuyBulkRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		result, err := sess.BuyBulk(req.Indices)
		if err != nil {
			log.Warn("Failed to buy bulk", "session_id", sess.ID(), "indices", req.Indices, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Bulk purchase completed",
			"session_id", sess.ID(),
			"item_count", len(result.Items),
			"total_cost", result.TotalCost,
			"bulk_discount", result.BulkDiscount)

		for _, bought := range result.Items {
			if err := eventBus.Publish(r.Context(), event.NewItemEvent(event.ItemPurchased, sess.ID(), bought.Item.TemplateKey, string(bought.Item.Rarity), bought.Cost)); err != nil {
				log.Error("Failed to publish item.purchased event", "error", err)
			}
		}

		respondJSON(w, http.StatusOK, BuyBulkResponse{Result: result, Credits: sess.Credits()})
	}
}

type SellItemRequest struct {
	ItemID string `json:"item_id" validate:"required,max=100"`
}

type SellItemResponse struct {
	Result  *shop.SellResult `json:"result"`
	Credits int              `json:"credits"`
}

// HandleSellItem sells one unit of an inventory item to the shop
// @Summary Sell item
// @Description Sell one unit of an inventory item at the buyback rate
// @Tags shop
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body SellItemRequest true "Item to sell"
// @Success 200 {object} SellItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/shop/sell [post]
func HandleSellItem(manager *session.Manager, eventBus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req SellItemRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		result, err := sess.Sell(req.ItemID)
		if err != nil {
			log.Warn("Failed to sell item", "session_id", sess.ID(), "item_id", req.ItemID, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Item sold", "session_id", sess.ID(), "item_id", req.ItemID, "earned", result.Earned)

		if err := eventBus.Publish(r.Context(), event.NewItemEvent(event.ItemSold, sess.ID(), req.ItemID, "", result.Earned)); err != nil {
			log.Error("Failed to publish item.sold event", "error", err)
		}

		respondJSON(w, http.StatusOK, SellItemResponse{Result: result, Credits: sess.Credits()})
	}
}

// HandleRestockShop regenerates the shop's stock immediately
// @Summary Restock shop
// @Description Regenerate the shop's listings at the player's level
// @Tags shop
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} shop.Info
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/shop/restock [post]
func HandleRestockShop(manager *session.Manager, eventBus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var info *shop.Info
		err := sess.With(func(state *session.State) error {
			if err := state.Market.Restock(state.PlayerLevel); err != nil {
				return err
			}
			info = state.Market.ShopInfo()
			return nil
		})
		if err != nil {
			log.Warn("Failed to restock shop", "session_id", sess.ID(), "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Shop restocked", "session_id", sess.ID(), "shop_type", info.Type, "item_count", info.ItemCount)

		if err := eventBus.Publish(r.Context(), event.NewShopRestockedEvent(sess.ID(), info.Type, info.ItemCount)); err != nil {
			log.Error("Failed to publish shop.restocked event", "error", err)
		}

		respondJSON(w, http.StatusOK, info)
	}
}

type ChangeShopTypeRequest struct {
	ShopType string `json:"shop_type" validate:"required,max=50"`
}

// HandleChangeShopType switches the shop archetype and restocks
// @Summary Change shop type
// @Description Change the shop archetype; the shop restocks immediately
// @Tags shop
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body ChangeShopTypeRequest true "New shop type"
// @Success 200 {object} shop.Info
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/shop/type [post]
func HandleChangeShopType(manager *session.Manager, eventBus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req ChangeShopTypeRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var info *shop.Info
		err := sess.With(func(state *session.State) error {
			if err := state.Market.ChangeShopType(req.ShopType); err != nil {
				return err
			}
			if err := state.Market.Restock(state.PlayerLevel); err != nil {
				return err
			}
			info = state.Market.ShopInfo()
			return nil
		})
		if err != nil {
			log.Warn("Failed to change shop type", "session_id", sess.ID(), "shop_type", req.ShopType, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Shop type changed", "session_id", sess.ID(), "shop_type", req.ShopType)

		if err := eventBus.Publish(r.Context(), event.NewShopRestockedEvent(sess.ID(), info.Type, info.ItemCount)); err != nil {
			log.Error("Failed to publish shop.restocked event", "error", err)
		}

		respondJSON(w, http.StatusOK, info)
	}
}
