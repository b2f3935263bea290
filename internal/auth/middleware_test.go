package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoIdentity is a terminal handler that reports what the middleware stored.
func echoIdentity(t *testing.T, seen *Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if ok {
			*seen = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithSession(t *testing.T, sm *SessionManager, id Identity) *http.Request {
	t.Helper()
	token, err := sm.Start(id)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	return req
}

func TestRequireAuth(t *testing.T) {
	sm := newTestSessionManager(t)

	t.Run("anonymous is redirected to login", func(t *testing.T) {
		var seen Identity
		rec := httptest.NewRecorder()

		RequireAuth(sm)(echoIdentity(t, &seen)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, LoginPath, rec.Header().Get("Location"))
		assert.Zero(t, seen.UserID, "handler must not run")
	})

	t.Run("valid session reaches handler with identity", func(t *testing.T) {
		var seen Identity
		rec := httptest.NewRecorder()

		RequireAuth(sm)(echoIdentity(t, &seen)).ServeHTTP(rec, requestWithSession(t, sm, Identity{UserID: 9, Name: "Cy"}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, Identity{UserID: 9, Name: "Cy"}, seen)
	})

	t.Run("tampered cookie is rejected", func(t *testing.T) {
		var seen Identity
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "forged"})

		RequireAuth(sm)(echoIdentity(t, &seen)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestRequireAuthAPI_Anonymous(t *testing.T) {
	sm := newTestSessionManager(t)
	var seen Identity
	rec := httptest.NewRecorder()

	RequireAuthAPI(sm)(echoIdentity(t, &seen)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/messages/1", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}

func TestLoadSession_NeverBlocks(t *testing.T) {
	sm := newTestSessionManager(t)

	var seen Identity
	rec := httptest.NewRecorder()
	LoadSession(sm)(echoIdentity(t, &seen)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, seen.UserID)

	rec = httptest.NewRecorder()
	LoadSession(sm)(echoIdentity(t, &seen)).ServeHTTP(rec, requestWithSession(t, sm, Identity{UserID: 4, Name: "Di"}))
	assert.Equal(t, int64(4), seen.UserID)
}
