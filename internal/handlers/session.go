package handlers

import (
	"net/http"

	"examprep-backend/internal/middleware"
)

type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Get reports the caller's preferences and whether content is indexed.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	writeJSON(w, http.StatusOK, sess.Snapshot().Response())
}
