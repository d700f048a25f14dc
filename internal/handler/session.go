package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kiln-games/depthforge/internal/event"
	"github.com/kiln-games/depthforge/internal/logger"
	"github.com/kiln-games/depthforge/internal/session"
)

type CreateSessionResponse struct {
	SessionID   string `json:"session_id"`
	PlayerLevel int    `json:"player_level"`
	Credits     int    `json:"credits"`
}

// HandleCreateSession creates a new player session
// @Summary Create session
// @Description Create a new isolated player session with starting credits
// @Tags session
// @Produce json
// @Success 201 {object} CreateSessionResponse
// @Router /session [post]
func HandleCreateSession(manager *session.Manager, eventBus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess := manager.Create()

		log.Info("Session created", "session_id", sess.ID())

		if err := eventBus.Publish(r.Context(), event.NewSessionEvent(event.SessionCreated, sess.ID())); err != nil {
			log.Error("Failed to publish session.created event", "error", err)
		}

		respondJSON(w, http.StatusCreated, CreateSessionResponse{
			SessionID:   sess.ID(),
			PlayerLevel: sess.PlayerLevel(),
			Credits:     sess.Credits(),
		})
	}
}

// HandleDeleteSession removes a session and its persisted snapshot
// @Summary Delete session
// @Description Delete a session and its stored snapshot
// @Tags session
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID} [delete]
func HandleDeleteSession(manager *session.Manager, eventBus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		id := chi.URLParam(r, ParamSessionID)

		if err := manager.Delete(r.Context(), id); err != nil {
			log.Warn("Failed to delete session", "session_id", id, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Session deleted", "session_id", id)

		if err := eventBus.Publish(r.Context(), event.NewSessionEvent(event.SessionDeleted, id)); err != nil {
			log.Error("Failed to publish session.deleted event", "error", err)
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSessionDeletedSuccess})
	}
}

type SessionInfoResponse struct {
	SessionID   string `json:"session_id"`
	PlayerLevel int    `json:"player_level"`
	Credits     int    `json:"credits"`
}

// HandleGetSession returns a session's wallet and level
// @Summary Get session
// @Description Get a session's player level and credit balance
// @Tags session
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} SessionInfoResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/{sessionID} [get]
func HandleGetSession(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		respondJSON(w, http.StatusOK, SessionInfoResponse{
			SessionID:   sess.ID(),
			PlayerLevel: sess.PlayerLevel(),
			Credits:     sess.Credits(),
		})
	}
}

type SetPlayerLevelRequest struct {
	Level int `json:"level" validate:"required,min=1,max=1000"`
}

// HandleSetPlayerLevel sets the session's player level
// @Summary Set player level
// @Description Set the player level used for generation and shop scaling
// @Tags session
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body SetPlayerLevelRequest true "Level"
// @Success 200 {object} SessionInfoResponse
// @Failure 400 {object} ErrorResponse
// @Router /session/{sessionID}/level [post]
func HandleSetPlayerLevel(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := sessionFromRequest(w, r, manager)
		if !ok {
			return
		}

		var req SetPlayerLevelRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if err := sess.SetPlayerLevel(req.Level); err != nil {
			log.Warn("Failed to set player level", "session_id", sess.ID(), "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Player level set", "session_id", sess.ID(), "level", req.Level)

		respondJSON(w, http.StatusOK, SessionInfoResponse{
			SessionID:   sess.ID(),
			PlayerLevel: sess.PlayerLevel(),
			Credits:     sess.Credits(),
		})
	}
}

type SaveSessionResponse struct {
	Message string `json:"message"`
	Saved   bool   `json:"saved"`
}

// HandleSaveSession persists the session snapshot
// @Summary Save session
// @Description Persist the session snapshot to the repository
// @Tags session
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} SaveSessionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /session/{sessionID}/save [post]
func HandleSaveSession(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		id := chi.URLParam(r, ParamSessionID)

		saved, err := manager.Save(r.Context(), id)
		if err != nil {
			log.Error("Failed to save session", "session_id", id, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Session saved", "session_id", id, "saved", saved)

		msg := MsgSessionSavedSuccess
		if !saved {
			msg = MsgSessionUnchanged
		}
		respondJSON(w, http.StatusOK, SaveSessionResponse{Message: msg, Saved: saved})
	}
}

// HandleLoadSession restores a session from its persisted snapshot
// @Summary Load session
// @Description Restore a session from its stored snapshot
// @Tags session
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} SessionInfoResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /session/{sessionID}/load [post]
func HandleLoadSession(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		id := chi.URLParam(r, ParamSessionID)

		sess, err := manager.Load(r.Context(), id)
		if err != nil {
			log.Error("Failed to load session", "session_id", id, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Session loaded", "session_id", id)

		respondJSON(w, http.StatusOK, SessionInfoResponse{
			SessionID:   sess.ID(),
			PlayerLevel: sess.PlayerLevel(),
			Credits:     sess.Credits(),
		})
	}
}
