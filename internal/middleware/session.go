package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"examprep-backend/internal/session"
)

type contextKey string

const SessionKey contextKey = "session"

const (
	SessionCookie = "tutor_session"
	SessionHeader = "X-Session-Token"
)

// SessionTokens signs and verifies the tokens that bind a client to its
// tutoring session. They carry no identity and grant no permissions.
type SessionTokens struct {
	Secret []byte
	TTL    time.Duration
	Secure bool
}

func NewSessionTokens(secret string, ttl time.Duration, secure bool) *SessionTokens {
	return &SessionTokens{Secret: []byte(secret), TTL: ttl, Secure: secure}
}

// Issue creates a token for sessionID expiring after TTL.
func (t *SessionTokens) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(t.TTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

// Parse verifies tokenStr and returns the session ID it carries.
func (t *SessionTokens) Parse(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.Secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid session token claims")
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errors.New("session token has no session id")
	}
	return sid, nil
}

// TokenFromRequest looks for a session token in the cookie, the header and
// finally the "token" query parameter used by WebSocket clients.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get(SessionHeader); h != "" {
		return h
	}
	return r.URL.Query().Get("token")
}

// Middleware resolves the caller's session, creating one when the token is
// missing or invalid, and refreshes the token on every response.
func (t *SessionTokens) Middleware(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sid string
			if tokenStr := TokenFromRequest(r); tokenStr != "" {
				if parsed, err := t.Parse(tokenStr); err == nil {
					sid = parsed
				}
			}

			sess := store.GetOrCreate(sid)

			tokenStr, err := t.Issue(sess.ID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue session token", r)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    tokenStr,
				Path:     "/",
				MaxAge:   int(t.TTL.Seconds()),
				HttpOnly: true,
				Secure:   t.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(SessionHeader, tokenStr)

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession extracts the session from request context
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(SessionKey).(*session.Session)
	return sess
}

// WithSession attaches sess to ctx. Used by tests and internal callers.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":      message,
		"code":       code,
		"request_id": requestID,
	})
}
