package handler

import (
	"net/http"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/event"
	"github.com/kiln-games/depthforge/internal/logger"
	"github.com/kiln-games/depthforge/internal/resource"
	"github.com/kiln-games/depthforge/internal/session"
)

type GenerateNodesRequest struct {
	Width  float64 `json:"width" validate:"required,gt=0,max=10000"`
	Height float64 `json:"height" validate:"required,gt=0,max=10000"`
	Floor  int     `json:"floor" validate:"required,min=1,max=1000"`
}

type GenerateNodesResponse struct {
	Nodes []*resource.Node `json:"nodes"`
}

// HandleGenerateNodes populates a floor with resource nodes
// @Summary Generate resource nodes
// @Description Generate resource node spawns for a floor area
// @Tags resources
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body GenerateNodesRequest true "Floor dimensions"
// @Success 200 {object} GenerateNodesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/nodes/generate [post]
func HandleGenerateNodes(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req GenerateNodesRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var resp GenerateNodesResponse
		_ = sess.With(func(state *session.State) error {
			resp.Nodes = state.Field.GenerateNodes(domain.Dimensions{Width: req.Width, Height: req.Height}, req.Floor)
			return nil
		})

		log.Info("Nodes generated", "session_id", sess.ID(), "floor", req.Floor, "count", len(resp.Nodes))

		respondJSON(w, http.StatusOK, resp)
	}
}

// HandleGetNodes lists the current floor's resource nodes
// @Summary List resource nodes
// @Description List the resource nodes on the current floor
// @Tags resources
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} GenerateNodesResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/nodes [get]
func HandleGetNodes(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var resp GenerateNodesResponse
		_ = sess.With(func(state *session.State) error {
			resp.Nodes = state.Field.Nodes()
			return nil
		})

		respondJSON(w, http.StatusOK, resp)
	}
}

type HarvestRequest struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	SkillLevel int     `json:"skill_level" validate:"omitempty,min=0,max=1000"`
	Stamina    int     `json:"stamina" validate:"min=0,max=10000"`
}

// HandleHarvest harvests the first active node in range of a position
// @Summary Harvest resources
// @Description Harvest the first active resource node within range of the position
// @Tags resources
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body HarvestRequest true "Harvest position and player state"
// @Success 200 {object} domain.HarvestResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/harvest [post]
func HandleHarvest(manager *session.Manager, eventBus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req HarvestRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var result *domain.HarvestResult
		err := sess.With(func(state *session.State) error {
			harvested, err := state.Field.TryHarvest(domain.Position{X: req.X, Y: req.Y}, req.SkillLevel, req.Stamina)
			if err != nil {
				return err
			}
			result = harvested
			return nil
		})
		if err != nil {
			log.Warn("Failed to harvest", "session_id", sess.ID(), "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Resources harvested",
			"session_id", sess.ID(),
			"node_id", result.NodeID,
			"resource", result.Type,
			"amount", result.Amount)

		if err := eventBus.Publish(r.Context(), event.NewHarvestEvent(sess.ID(), result.NodeID, string(result.Type), string(result.Rarity), result.Amount)); err != nil {
			log.Error("Failed to publish resource.harvested event", "error", err)
		}

		respondJSON(w, http.StatusOK, result)
	}
}

type GetResourcesResponse struct {
	Resources map[domain.ResourceType]map[domain.Rarity]int `json:"resources"`
	Total     int                                           `json:"total"`
	Capacity  int                                           `json:"capacity"`
}

// HandleGetResources returns the session's resource ledger
// @Summary Get resources
// @Description Get stored resource counts by type and rarity
// @Tags resources
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} GetResourcesResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/resources [get]
func HandleGetResources(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var resp GetResourcesResponse
		_ = sess.With(func(state *session.State) error {
			resp.Resources = state.Ledger.All()
			resp.Total = state.Ledger.Total()
			resp.Capacity = state.Ledger.Capacity()
			return nil
		})

		respondJSON(w, http.StatusOK, resp)
	}
}
