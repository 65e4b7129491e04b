package handlers

import (
	"net/http"

	"examprep-backend/internal/logger"
	"examprep-backend/internal/middleware"
	"examprep-backend/internal/models"
	"examprep-backend/internal/services"
)

type TopicHandler struct {
	tutor *services.TutorService
	log   *logger.Logger
}

func NewTopicHandler(tutor *services.TutorService, log *logger.Logger) *TopicHandler {
	return &TopicHandler{tutor: tutor, log: log}
}

// Prioritize ranks the session's topics. Unlike Ask, a session without
// content is a client error here.
func (h *TopicHandler) Prioritize(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	topics, err := h.tutor.PrioritizeTopics(r.Context(), sess)
	if err != nil {
		switch err.(type) {
		case *services.NoIndexError:
			writeJSON(w, http.StatusBadRequest, errorResp("NO_CONTENT", services.NoContentMessage, r))
		default:
			h.log.Error("topic prioritization failed", "session_id", sess.ID, "error", err, "request_id", r.Header.Get("X-Request-ID"))
			writeJSON(w, http.StatusInternalServerError, errorResp(services.ErrorCode(err), "Failed to prioritize topics", r))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.TopicsResponse{Topics: topics})
}
