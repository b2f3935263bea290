package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "identity", id), ANY package that knows the string
// can read or shadow your value. Using a package-private type prevents collisions.
type contextKey string

const identityKey contextKey = "identity"

// LoginPath is where RequireAuth sends anonymous browsers.
const LoginPath = "/login"

// WithIdentity returns a copy of ctx carrying the authenticated identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the authenticated identity from the request context.
//
// Returns (Identity{}, false) if the request is anonymous.
//
// Usage in handlers:
//
//	id, ok := auth.IdentityFromContext(r.Context())
//	if !ok {
//	    // anonymous user
//	}
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID > 0
}

// LoadSession is a middleware that extracts the identity if a valid session
// cookie is present, but does NOT block the request if it's missing or invalid.
//
// Used on public routes like GET / where a logged-in user is redirected to
// the dashboard while anonymous users see the login page.
func LoadSession(sessions *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := sessions.FromRequest(r); ok {
				r = r.WithContext(WithIdentity(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth guards page routes: without a valid session the browser is
// redirected to the login page and the handler never runs.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware takes an http.Handler and returns a new http.Handler that
// wraps it. Chi applies them in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
func RequireAuth(sessions *SessionManager) func(http.Handler) http.Handler {
	return guard(sessions, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	})
}

// RequireAuthAPI guards JSON routes: without a valid session it answers
// 401 with a JSON error body instead of redirecting.
func RequireAuthAPI(sessions *SessionManager) func(http.Handler) http.Handler {
	return guard(sessions, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
	})
}

// guard is the shared body of RequireAuth and RequireAuthAPI.
func guard(sessions *SessionManager, reject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				id, ok = sessions.FromRequest(r)
			}
			if !ok {
				reject(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
