package handlers

import (
	"encoding/json"
	"net/http"

	"examprep-backend/internal/logger"
	"examprep-backend/internal/models"
	"examprep-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: r.Header.Get("X-Request-ID"),
	}
}

// handleServiceError maps typed service errors onto HTTP responses. The
// no-content case is endpoint specific and handled by the callers.
func handleServiceError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	code := services.ErrorCode(err)
	switch e := err.(type) {
	case *services.ValidationError:
		writeJSON(w, http.StatusBadRequest, errorResp(code, e.Error(), r))
	case *services.NoIndexError:
		writeJSON(w, http.StatusBadRequest, errorResp(code, e.Error(), r))
	case *services.TooLargeError:
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp(code, e.Error(), r))
	case *services.ExtractionError:
		log.Warn("pdf extraction failed", "file", e.File, "error", e.Err, "request_id", r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusUnprocessableEntity, errorResp(code, "Could not read "+e.File+" as a PDF", r))
	case *services.ExternalError:
		log.Error("external service failed", "service", e.Service, "error", e.Err, "request_id", r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusBadGateway, errorResp(code, "The "+e.Service+" service is unavailable, please try again", r))
	default:
		log.Error("unexpected error", "error", err, "request_id", r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
