package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examprep-backend/internal/session"
)

func sessionEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r.Context())
		require.NotNil(t, sess)
		w.Write([]byte(sess.ID))
	})
}

func TestSessionTokens_IssueAndParse(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Hour, false)

	tok, err := tokens.Issue("abc-123")
	require.NoError(t, err)

	sid, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", sid)

	_, err = NewSessionTokens("other", time.Hour, false).Parse(tok)
	assert.Error(t, err)
}

func TestSessionTokens_RejectsExpiredAndEmpty(t *testing.T) {
	tokens := NewSessionTokens("secret", -time.Minute, false)
	tok, err := tokens.Issue("abc")
	require.NoError(t, err)
	_, err = tokens.Parse(tok)
	assert.Error(t, err)

	noSid := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	signed, err := noSid.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = NewSessionTokens("secret", time.Hour, false).Parse(signed)
	assert.Error(t, err)
}

func TestSessionMiddleware_CreatesAndReusesSession(t *testing.T) {
	store := session.NewStore(time.Hour, time.Minute)
	tokens := NewSessionTokens("secret", time.Hour, false)
	h := tokens.Middleware(store)(sessionEcho(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))
	first := rec.Body.String()
	require.NotEmpty(t, first)
	token := rec.Header().Get(SessionHeader)
	require.NotEmpty(t, token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	// cookie
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, first, rec.Body.String())

	// header
	req = httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set(SessionHeader, token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, first, rec.Body.String())

	// query
	req = httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, first, rec.Body.String())

	assert.Equal(t, 1, store.Count())
}

func TestSessionMiddleware_InvalidTokenStartsFreshSession(t *testing.T) {
	store := session.NewStore(time.Hour, time.Minute)
	h := NewSessionTokens("secret", time.Hour, false).Middleware(store)(sessionEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
	assert.Equal(t, 1, store.Count())
}

func TestSessionMiddleware_SeparateClientsGetSeparateSessions(t *testing.T) {
	store := session.NewStore(time.Hour, time.Minute)
	h := NewSessionTokens("secret", time.Hour, false).Middleware(store)(sessionEcho(t))

	a := httptest.NewRecorder()
	h.ServeHTTP(a, httptest.NewRequest(http.MethodGet, "/", nil))
	b := httptest.NewRecorder()
	h.ServeHTTP(b, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEqual(t, a.Body.String(), b.Body.String())
	assert.Equal(t, 2, store.Count())
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "client-id", rec.Header().Get(RequestIDHeader))
}

func TestCORS_AllowsFrontendWithCredentials(t *testing.T) {
	h := CORS("https://tutor.example.com/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://tutor.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://tutor.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
