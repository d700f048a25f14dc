package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kiln-games/depthforge/internal/crafting"
	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/event"
	"github.com/kiln-games/depthforge/internal/logger"
	"github.com/kiln-games/depthforge/internal/session"
)

// RecipeView is one recipe listing with its craftability for this session
type RecipeView struct {
	Recipe   *domain.Recipe                                `json:"recipe"`
	CanCraft bool                                          `json:"can_craft"`
	Missing  map[domain.ResourceType]map[domain.Rarity]int `json:"missing,omitempty"`
}

type GetRecipesResponse struct {
	Recipes       []RecipeView `json:"recipes"`
	CraftingLevel int          `json:"crafting_level"`
	CraftingExp   int          `json:"crafting_exp"`
}

// HandleGetRecipes lists unlocked recipes with craftability
// @Summary List recipes
// @Description List unlocked recipes, optionally filtered by type, with per-recipe craftability
// @Tags crafting
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param type query string false "Recipe type filter"
// @Success 200 {object} GetRecipesResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/recipes [get]
func HandleGetRecipes(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		recipeType := r.URL.Query().Get("type")

		var resp GetRecipesResponse
		_ = sess.With(func(state *session.State) error {
			var recipes []*domain.Recipe
			if recipeType != "" {
				recipes = state.Book.RecipesByType(domain.RecipeType(recipeType))
			} else {
				recipes = state.Book.Recipes()
			}

			resp.Recipes = make([]RecipeView, 0, len(recipes))
			for _, recipe := range recipes {
				view := RecipeView{
					Recipe:   recipe,
					CanCraft: state.Book.CanCraft(recipe.ID, state.Ledger),
				}
				if !view.CanCraft {
					view.Missing = state.Book.MissingResources(recipe.ID, state.Ledger)
				}
				resp.Recipes = append(resp.Recipes, view)
			}
			resp.CraftingLevel = state.Book.CraftingLevel()
			resp.CraftingExp = state.Book.CraftingExp()
			return nil
		})

		respondJSON(w, http.StatusOK, resp)
	}
}

type UnlockRecipeRequest struct {
	RecipeID string `json:"recipe_id" validate:"required,max=100"`
}

// HandleUnlockRecipe marks a recipe as craftable
// @Summary Unlock recipe
// @Description Unlock a recipe so it can be crafted
// @Tags crafting
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body UnlockRecipeRequest true "Recipe to unlock"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/recipes/unlock [post]
func HandleUnlockRecipe(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req UnlockRecipeRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		err := sess.With(func(state *session.State) error {
			return state.Book.Unlock(req.RecipeID)
		})
		if err != nil {
			log.Warn("Failed to unlock recipe", "session_id", sess.ID(), "recipe_id", req.RecipeID, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Recipe unlocked", "session_id", sess.ID(), "recipe_id", req.RecipeID)

		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Recipe unlocked"})
	}
}

type CraftRequest struct {
	RecipeID string `json:"recipe_id" validate:"required,max=100"`
}

type CraftResponse struct {
	Result *crafting.CraftResult `json:"result"`
}

// HandleCraft crafts a recipe from ledger resources
// @Summary Craft item
// @Description Craft a recipe, consuming resources and rolling a quality tier
// @Tags crafting
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body CraftRequest true "Recipe to craft"
// @Success 200 {object} CraftResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Recipe locked"
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID}/craft [post]
func HandleCraft(manager *session.Manager, eventBus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req CraftRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var result *crafting.CraftResult
		err := sess.With(func(state *session.State) error {
			// Craft spends ledger resources, so the slot check comes first:
			// a craft must never consume resources and then drop the item.
			if state.Inventory.FreeSlots() == 0 {
				return fmt.Errorf("%w: no free slot for crafted item", domain.ErrInventoryFull)
			}
			crafted, err := state.Book.Craft(req.RecipeID, state.Ledger)
			if err != nil {
				return err
			}
			if _, err := state.Inventory.Add(crafted.Item); err != nil {
				return err
			}
			result = crafted
			return nil
		})
		if err != nil {
			log.Warn("Failed to craft", "session_id", sess.ID(), "recipe_id", req.RecipeID, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Item crafted",
			"session_id", sess.ID(),
			"recipe_id", req.RecipeID,
			"quality", result.Quality,
			"leveled_up", result.LeveledUp)

		craftedEvent := event.Event{
			Version: event.EventSchemaVersion,
			Type:    event.ItemCrafted,
			Payload: event.ItemPayloadV1{
				SessionID:   sess.ID(),
				TemplateKey: req.RecipeID,
				Rarity:      string(result.Item.Rarity),
				Quality:     string(result.Quality),
				Timestamp:   time.Now().Unix(),
			},
		}
		if err := eventBus.Publish(r.Context(), craftedEvent); err != nil {
			log.Error("Failed to publish item.crafted event", "error", err)
		}

		respondJSON(w, http.StatusOK, CraftResponse{Result: result})
	}
}
