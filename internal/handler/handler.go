package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kiln-games/depthforge/internal/logger"
	"github.com/kiln-games/depthforge/internal/session"
)

// URL parameter for session-scoped routes
const ParamSessionID = "sessionID"

// sessionFromRequest resolves the session URL parameter against the manager.
// On failure it writes the error response and returns false.
func sessionFromRequest(w http.ResponseWriter, r *http.Request, manager *session.Manager) (*session.Session, bool) {
	id := chi.URLParam(r, ParamSessionID)
	sess, err := manager.Get(id)
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Warn("Session lookup failed", "session_id", id, "error", err)
		status, msg := mapServiceErrorToUserMessage(err)
		respondError(w, status, msg)
		return nil, false
	}
	return sess, true
}

// decodeAndValidate decodes the JSON body into dst and validates it.
// On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error("Failed to decode request", "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return false
	}

	if err := GetValidator().ValidateStruct(dst); err != nil {
		log.Warn("Invalid request", "error", err)
		respondError(w, http.StatusBadRequest, fmt.Sprintf("%s: %v", ErrMsgInvalidRequestSummary, err))
		return false
	}

	return true
}
