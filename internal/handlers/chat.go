package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"examprep-backend/internal/logger"
	"examprep-backend/internal/middleware"
	"examprep-backend/internal/models"
	"examprep-backend/internal/persona"
	"examprep-backend/internal/services"
)

type ChatHandler struct {
	tutor *services.TutorService
	log   *logger.Logger
}

func NewChatHandler(tutor *services.TutorService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{tutor: tutor, log: log}
}

// Ask answers a question from the session's notes. Asking before any upload
// is not an error; the advisory text comes back as the answer.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	sess := middleware.GetSession(r.Context())
	answer, err := h.tutor.Answer(r.Context(), sess, req.Question)
	if err != nil {
		if _, ok := err.(*services.NoIndexError); ok {
			writeJSON(w, http.StatusOK, models.AskResponse{Answer: services.NoContentMessage})
			return
		}
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, models.AskResponse{Answer: answer})
}

func (h *ChatHandler) ModeChange(w http.ResponseWriter, r *http.Request) {
	var req models.ModeChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	sess := middleware.GetSession(r.Context())
	res := h.tutor.ChangeMode(sess, req.StudyMode, req.VibeType)

	message := fmt.Sprintf("Study mode set to: %s", res.Persona.Mode)
	if res.Persona.Mode == persona.ModeVibe && res.Persona.Variant != persona.DefaultVariant {
		message += fmt.Sprintf(" (%s)", res.Persona.Variant)
	}

	writeJSON(w, http.StatusOK, models.ModeChangeResponse{
		Message:   message,
		StudyMode: string(res.Persona.Mode),
		VibeType:  res.Persona.Variant,
		Language:  res.Language,
	})
}
