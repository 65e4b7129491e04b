package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"examprep-backend/internal/handlers"
	"examprep-backend/internal/logger"
	"examprep-backend/internal/middleware"
	"examprep-backend/internal/models"
	"examprep-backend/internal/persona"
	"examprep-backend/internal/services"
	"examprep-backend/internal/session"
	"examprep-backend/internal/testutil"
	"examprep-backend/internal/websocket"
)

func newTestRouter() (http.Handler, *session.Store) {
	log := logger.Nop()
	store := session.NewStore(time.Hour, time.Minute)
	tokens := middleware.NewSessionTokens("router-secret", time.Hour, false)
	hub := websocket.NewHub(nil, tokens, store, log)

	tutor := services.NewTutorService(
		services.NewFileExtractService(log),
		testutil.NewKeywordEmbedder(),
		&testutil.FakeGenerator{Reply: "ok"},
		persona.Default(),
		hub,
		log,
	)

	h := New(
		tokens,
		store,
		handlers.NewContentHandler(tutor, log),
		handlers.NewChatHandler(tutor, log),
		handlers.NewTopicHandler(tutor, log),
		handlers.NewSessionHandler(),
		hub,
		"http://localhost:5173",
	)
	return h, store
}

func TestHealth(t *testing.T) {
	h, store := newTestRouter()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK || rr.Body.String() != "OK" {
		t.Fatalf("expected 200 OK, got %d %q", rr.Code, rr.Body.String())
	}
	if rr.Header().Get(middleware.RequestIDHeader) == "" {
		t.Errorf("expected request id header")
	}
	if store.Count() != 0 {
		t.Errorf("health check must not create a session")
	}
}

func TestModeChangeThenSession_KeepsSessionViaHeader(t *testing.T) {
	h, store := newTestRouter()

	body, _ := json.Marshal(models.ModeChangeRequest{StudyMode: "professor"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/mode-change", bytes.NewReader(body)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	token := rr.Header().Get(middleware.SessionHeader)
	if token == "" {
		t.Fatal("expected a session token")
	}

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set(middleware.SessionHeader, token)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp models.SessionResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Context.StudyMode != "professor" {
		t.Errorf("expected persisted professor mode, got %q", resp.Context.StudyMode)
	}
	if store.Count() != 1 {
		t.Errorf("expected one session, got %d", store.Count())
	}
}

func TestAsk_SessionsAreIsolated(t *testing.T) {
	h, store := newTestRouter()

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString(`{"question":"hi"}`)))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	}
	if store.Count() != 2 {
		t.Errorf("requests without a token should get separate sessions, got %d", store.Count())
	}
}

func TestWebSocket_RequiresToken(t *testing.T) {
	h, _ := newTestRouter()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	h, _ := newTestRouter()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/summaries", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
