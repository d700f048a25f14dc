package handler

import (
	"fmt"
	"net/http"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/equipment"
	"github.com/kiln-games/depthforge/internal/logger"
	"github.com/kiln-games/depthforge/internal/session"
)

// HandleGetEquipment returns the equipment board summary
// @Summary Get equipment
// @Description Get equipped items, total stats and active set bonuses
// @Tags equipment
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} equipment.Summary
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/equipment [get]
func HandleGetEquipment(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var summary *equipment.Summary
		_ = sess.With(func(state *session.State) error {
			summary = state.Equipment.Summarize()
			return nil
		})

		respondJSON(w, http.StatusOK, summary)
	}
}

type EquipItemRequest struct {
	ItemID string `json:"item_id" validate:"required,max=100"`
	Slot   string `json:"slot" validate:"slot"`
}

// HandleEquipItem equips an inventory item into a slot
// @Summary Equip item
// @Description Equip an inventory item; omitting the slot picks the first compatible one
// @Tags equipment
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body EquipItemRequest true "Item and slot"
// @Success 200 {object} equipment.EquipResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/equipment/equip [post]
func HandleEquipItem(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req EquipItemRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var result *equipment.EquipResult
		err := sess.With(func(state *session.State) error {
			it, found := state.Inventory.Get(req.ItemID)
			if !found {
				return fmt.Errorf("%w: %s", domain.ErrItemNotFound, req.ItemID)
			}

			slot := equipment.SlotName(req.Slot)
			if slot == "" {
				slots := state.Equipment.AvailableSlots(it)
				if len(slots) == 0 {
					return fmt.Errorf("%w: %s", domain.ErrSlotIncompatible, it.DisplayName)
				}
				slot = slots[0]
			}

			equipped, err := state.Equipment.Equip(it, slot, state.Inventory)
			if err != nil {
				return err
			}
			result = equipped
			return nil
		})
		if err != nil {
			log.Warn("Failed to equip item", "session_id", sess.ID(), "item_id", req.ItemID, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Item equipped", "session_id", sess.ID(), "item", result.Equipped.DisplayName)

		respondJSON(w, http.StatusOK, result)
	}
}

type UnequipItemRequest struct {
	Slot string `json:"slot" validate:"required,slot"`
}

type UnequipItemResponse struct {
	Item *domain.Item `json:"item"`
}

// HandleUnequipItem moves an equipped item back into the inventory
// @Summary Unequip item
// @Description Unequip the item in a slot back into the inventory
// @Tags equipment
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body UnequipItemRequest true "Slot"
// @Success 200 {object} UnequipItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/equipment/unequip [post]
func HandleUnequipItem(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req UnequipItemRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var resp UnequipItemResponse
		err := sess.With(func(state *session.State) error {
			it, err := state.Equipment.Unequip(equipment.SlotName(req.Slot), state.Inventory)
			if err != nil {
				return err
			}
			resp.Item = it
			return nil
		})
		if err != nil {
			log.Warn("Failed to unequip item", "session_id", sess.ID(), "slot", req.Slot, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Item unequipped", "session_id", sess.ID(), "slot", req.Slot)

		respondJSON(w, http.StatusOK, resp)
	}
}

type AutoEquipResponse struct {
	Changes []equipment.AutoEquipChange `json:"changes"`
}

// HandleAutoEquip fills every slot with the best compatible inventory item
// @Summary Auto-equip
// @Description Equip the highest-scoring compatible inventory item into each slot
// @Tags equipment
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} AutoEquipResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/equipment/auto-equip [post]
func HandleAutoEquip(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var resp AutoEquipResponse
		_ = sess.With(func(state *session.State) error {
			resp.Changes = state.Equipment.AutoEquip(state.Inventory)
			return nil
		})

		log.Info("Auto-equip completed", "session_id", sess.ID(), "changes", len(resp.Changes))

		respondJSON(w, http.StatusOK, resp)
	}
}

type EquipmentStatsResponse struct {
	TotalStats domain.StatMap                     `json:"total_stats"`
	SetBonuses map[string]map[domain.Stat]float64 `json:"set_bonuses"`
}

// HandleGetEquipmentStats returns combined stats from equipped items
// @Summary Get equipment stats
// @Description Get stat totals including set bonuses from equipped items
// @Tags equipment
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} EquipmentStatsResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/equipment/stats [get]
func HandleGetEquipmentStats(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var resp EquipmentStatsResponse
		_ = sess.With(func(state *session.State) error {
			resp.TotalStats = state.Equipment.TotalStats()
			resp.SetBonuses = state.Equipment.SetBonuses()
			return nil
		})

		respondJSON(w, http.StatusOK, resp)
	}
}

type UpgradeEquippedRequest struct {
	Slot string `json:"slot" validate:"required,slot"`
}

// HandleUpgradeEquipped upgrades an equipped item in place
// @Summary Upgrade equipped item
// @Description Upgrade the item in a slot one level without unequipping it
// @Tags equipment
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body UpgradeEquippedRequest true "Slot"
// @Success 200 {object} UpgradeItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/equipment/upgrade [post]
func HandleUpgradeEquipped(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req UpgradeEquippedRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var resp UpgradeItemResponse
		err := sess.With(func(state *session.State) error {
			it, err := state.Equipment.UpgradeEquipped(equipment.SlotName(req.Slot))
			if err != nil {
				return err
			}
			resp.Item = it
			return nil
		})
		if err != nil {
			log.Warn("Failed to upgrade equipped item", "session_id", sess.ID(), "slot", req.Slot, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Equipped item upgraded", "session_id", sess.ID(), "slot", req.Slot)

		respondJSON(w, http.StatusOK, resp)
	}
}
