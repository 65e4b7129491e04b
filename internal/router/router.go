package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"examprep-backend/internal/handlers"
	"examprep-backend/internal/middleware"
	"examprep-backend/internal/session"
	"examprep-backend/internal/websocket"
)

func New(
	tokens *middleware.SessionTokens,
	store *session.Store,
	contentHandler *handlers.ContentHandler,
	chatHandler *handlers.ChatHandler,
	topicHandler *handlers.TopicHandler,
	sessionHandler *handlers.SessionHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("OK"))
	})

	// ──── WebSocket (token checked by the hub) ────
	r.Get("/ws", wsHub.HandleWebSocket)

	// ──── Tutor Routes ────
	r.Group(func(r chi.Router) {
		r.Use(tokens.Middleware(store))

		r.Post("/process", contentHandler.Process)
		r.Post("/ask", chatHandler.Ask)
		r.Post("/mode-change", chatHandler.ModeChange)
		r.Post("/prioritize_topics", topicHandler.Prioritize)
		r.Get("/session", sessionHandler.Get)
	})

	return otelhttp.NewHandler(r, "examprep-backend")
}
