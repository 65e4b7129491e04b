package handlers

import (
	"errors"
	"net/http"

	"examprep-backend/internal/logger"
	"examprep-backend/internal/middleware"
	"examprep-backend/internal/models"
	"examprep-backend/internal/services"
)

const (
	maxUploadBytes = 100 << 20 // 100MB
	maxFormMemory  = 32 << 20
)

type ContentHandler struct {
	tutor *services.TutorService
	log   *logger.Logger
}

func NewContentHandler(tutor *services.TutorService, log *logger.Logger) *ContentHandler {
	return &ContentHandler{tutor: tutor, log: log}
}

// Process accepts the upload form, records the learner's preferences and
// indexes the PDFs for the caller's session.
func (h *ContentHandler) Process(w http.ResponseWriter, r *http.Request) {
	// Check content length
	if r.ContentLength > maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "Upload exceeds 100MB limit", r))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "Upload exceeds 100MB limit", r))
			return
		}
		// a body without files still updates preferences and is then rejected
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	var uploads []services.Upload
	if r.MultipartForm != nil {
		uploads = services.UploadsFromMultipart(r.MultipartForm.File["pdf_files"])
	}

	sess := middleware.GetSession(r.Context())
	res, err := h.tutor.ProcessContent(r.Context(), sess, services.ProcessRequest{
		Uploads:        uploads,
		VideoURL:       formValueOr(r, "yt_url", ""),
		CourseOutcomes: formValueOr(r, "course_outcomes", ""),
		BloomLevel:     formValueOr(r, "bloom_level", "2"),
		Weightage:      formValueOr(r, "weightage", "4"),
		Language:       formValueOr(r, "language", ""),
	})
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ProcessResponse{Message: res.Message, Segments: res.Segments})
}

// formValueOr returns def only when the field is absent. A submitted empty
// value is kept as is.
func formValueOr(r *http.Request, key, def string) string {
	if vals, ok := r.Form[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return def
}
