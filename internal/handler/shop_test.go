package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-games/depthforge/internal/event"
	"github.com/kiln-games/depthforge/internal/session"
	"github.com/kiln-games/depthforge/internal/shop"
)

func TestHandleGetShopTypes(t *testing.T) {
	h := HandleGetShopTypes()

	req := httptest.NewRequest("GET", "/api/v1/shop/types", nil)
	w := httptest.NewRecorder()

	h(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ShopTypesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Types, "general")
	assert.Contains(t, resp.Types, "weapon")
}

func TestHandleRestockShop(t *testing.T) {
	manager := testManager(t)
	sess := manager.Create()
	h := HandleRestockShop(manager, event.NewMemoryBus())

	req := sessionRequest(t, "POST", "/shop/restock", sess.ID(), nil)
	w := httptest.NewRecorder()

	h(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var info shop.Info
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "general", info.Type)
	assert.NotEmpty(t, info.Listings)
}

func TestHandleBuyItem(t *testing.T) {
	manager := testManager(t)
	sess := manager.Create()

	restock := HandleRestockShop(manager, event.NewMemoryBus())
	buy := HandleBuyItem(manager, event.NewMemoryBus())

	req := sessionRequest(t, "POST", "/shop/restock", sess.ID(), nil)
	w := httptest.NewRecorder()
	restock(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("buys the cheapest listing", func(t *testing.T) {
		req := sessionRequest(t, "POST", "/shop/buy", sess.ID(), BuyItemRequest{Index: 0})
		w := httptest.NewRecorder()

		buy(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp BuyItemResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Result)
		require.NotNil(t, resp.Result.Item)
		assert.Positive(t, resp.Result.Cost)
		assert.Equal(t, session.StartingCredits-resp.Result.Cost, resp.Credits)
	})

	t.Run("listing index out of range", func(t *testing.T) {
		req := sessionRequest(t, "POST", "/shop/buy", sess.ID(), BuyItemRequest{Index: 99})
		w := httptest.NewRecorder()

		buy(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgListingNotFoundError)
	})
}

func TestHandleSellItem(t *testing.T) {
	manager := testManager(t)
	factory := testFactory(t)
	sess := manager.Create()

	add := HandleAddItem(manager, factory)
	sell := HandleSellItem(manager, event.NewMemoryBus())

	req := sessionRequest(t, "POST", "/inventory/add", sess.ID(),
		AddItemRequest{TemplateKey: "test_sword", Rarity: "common"})
	w := httptest.NewRecorder()
	add(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var added AddItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))

	req = sessionRequest(t, "POST", "/shop/sell", sess.ID(), SellItemRequest{ItemID: added.Item.ID})
	w = httptest.NewRecorder()
	sell(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp SellItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Positive(t, resp.Result.Earned)
	assert.Equal(t, session.StartingCredits+resp.Result.Earned, resp.Credits)
}

func TestHandleChangeShopType(t *testing.T) {
	manager := testManager(t)
	sess := manager.Create()
	h := HandleChangeShopType(manager, event.NewMemoryBus())

	t.Run("switches archetype", func(t *testing.T) {
		req := sessionRequest(t, "POST", "/shop/type", sess.ID(), ChangeShopTypeRequest{ShopType: "weapon"})
		w := httptest.NewRecorder()

		h(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var info shop.Info
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
		assert.Equal(t, "weapon", info.Type)
	})

	t.Run("unknown archetype", func(t *testing.T) {
		req := sessionRequest(t, "POST", "/shop/type", sess.ID(), ChangeShopTypeRequest{ShopType: "bakery"})
		w := httptest.NewRecorder()

		h(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgUnknownShopTypeError)
	})
}
