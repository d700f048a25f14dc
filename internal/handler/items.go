package handler

import (
	"net/http"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/event"
	"github.com/kiln-games/depthforge/internal/item"
	"github.com/kiln-games/depthforge/internal/logger"
	"github.com/kiln-games/depthforge/internal/session"
)

type GenerateItemRequest struct {
	Level  int    `json:"level" validate:"omitempty,min=1,max=1000"`
	Rarity string `json:"rarity" validate:"rarity"`
}

type GenerateItemResponse struct {
	Item    *domain.Item     `json:"item"`
	Display item.DisplayInfo `json:"display"`
}

// HandleGenerateItem rolls a random item into the session inventory
// @Summary Generate item
// @Description Generate a random item at the given level, optionally forcing a rarity
// @Tags items
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body GenerateItemRequest true "Generation parameters"
// @Success 200 {object} GenerateItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/items/generate [post]
func HandleGenerateItem(manager *session.Manager, factory *item.Factory, eventBus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req GenerateItemRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var generated *domain.Item
		err := sess.With(func(state *session.State) error {
			level := req.Level
			if level < 1 {
				level = state.PlayerLevel
			}

			it, err := factory.GenerateRandom(level, domain.Rarity(req.Rarity))
			if err != nil {
				return err
			}
			if _, err := state.Inventory.Add(it); err != nil {
				return err
			}
			generated = it
			return nil
		})
		if err != nil {
			log.Warn("Failed to generate item", "session_id", sess.ID(), "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Item generated",
			"session_id", sess.ID(),
			"template", generated.TemplateKey,
			"rarity", generated.Rarity)

		if err := eventBus.Publish(r.Context(), event.NewItemEvent(event.ItemGenerated, sess.ID(), generated.TemplateKey, string(generated.Rarity), 0)); err != nil {
			log.Error("Failed to publish item.generated event", "error", err)
		}

		respondJSON(w, http.StatusOK, GenerateItemResponse{
			Item:    generated,
			Display: item.Display(generated),
		})
	}
}
