package session

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Manager resolves the opaque session token carried by the request cookie.
// Tokens are trusted as-is: any presented value identifies a session, and the
// server keeps no session state of its own.
type Manager struct {
	cookieName string
	ttl        time.Duration
}

func NewManager(cookieName string, ttl time.Duration) *Manager {
	return &Manager{cookieName: cookieName, ttl: ttl}
}

// Issue passes an existing token through and mints a fresh one for clients
// arriving without a cookie. Only creation routes should use it.
func (m *Manager) Issue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := m.fromRequest(r)
		if !ok {
			token = uuid.NewString()

			http.SetCookie(w, &http.Cookie{
				Name:   m.cookieName,
				Value:  token,
				Path:   "/",
				MaxAge: int(m.ttl.Seconds()),
			})
		}

		next.ServeHTTP(w, r.WithContext(newContext(r.Context(), token)))
	})
}

// Require rejects requests without a session cookie. It never mints a token,
// so probing a gated route leaves no session behind.
func (m *Manager) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := m.fromRequest(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "missing session cookie"})

			return
		}

		next.ServeHTTP(w, r.WithContext(newContext(r.Context(), token)))
	})
}

func (m *Manager) fromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return "", false
	}

	return c.Value, true
}

func newContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

// FromContext returns the session token resolved by Issue or Require.
func FromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ctxKey{}).(string)
	return token, ok
}
