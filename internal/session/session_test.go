package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruicoelho/tally/internal/session"
)

const cookieName = "sessionId"

func newManager() *session.Manager {
	return session.NewManager(cookieName, 7*24*time.Hour)
}

// capture records the token the middleware resolved into the context.
func capture(token *string, ok *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*token, *ok = session.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func findCookie(t *testing.T, res *http.Response, name string) *http.Cookie {
	t.Helper()

	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}

	return nil
}

func TestIssue_MintsTokenWhenCookieAbsent(t *testing.T) {
	var (
		token string
		ok    bool
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions", nil)

	newManager().Issue(capture(&token, &ok)).ServeHTTP(rec, req)

	require.True(t, ok)
	assert.NotEmpty(t, token)

	c := findCookie(t, rec.Result(), cookieName)
	require.NotNil(t, c)
	assert.Equal(t, token, c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 604800, c.MaxAge)
}

func TestIssue_PassesExistingTokenThrough(t *testing.T) {
	var (
		token string
		ok    bool
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "existing-token"})

	newManager().Issue(capture(&token, &ok)).ServeHTTP(rec, req)

	require.True(t, ok)
	assert.Equal(t, "existing-token", token)
	assert.Nil(t, findCookie(t, rec.Result(), cookieName), "no cookie should be re-issued")
}

func TestRequire_RejectsWithoutCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)

	called := false
	newManager().Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"missing session cookie"}`, rec.Body.String())

	// A rejected probe must not create a session as a side effect.
	assert.Nil(t, findCookie(t, rec.Result(), cookieName))
}

func TestRequire_AcceptsAnyPresentedToken(t *testing.T) {
	var (
		token string
		ok    bool
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "whatever-the-client-held"})

	newManager().Require(capture(&token, &ok)).ServeHTTP(rec, req)

	require.True(t, ok)
	assert.Equal(t, "whatever-the-client-held", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}
