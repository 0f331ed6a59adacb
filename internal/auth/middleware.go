package auth

import (
	"context"
	"net/http"
	"strings"
)

// SessionCookie is the name of the HttpOnly cookie carrying the session token.
const SessionCookie = "session"

// SessionResolver resolves a session token to a user ID.
//
// Implemented by service.AuthService. Declaring the interface here (at the
// point of use) keeps this package free of a dependency on the service
// package, and lets middleware tests use a two-line fake.
//
// The (userID, ok) shape is deliberate: every session failure — unknown,
// expired, logged out — means the same thing to the HTTP layer, "treat this
// request as anonymous". Callers that care why a token died use the service
// directly.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (string, bool)
}

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the values we store.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth enforces authentication on protected routes.
//
// It reads the session token (cookie first, then Authorization: Bearer for
// non-browser clients), resolves it to a user ID, and stores the ID in the
// request context. Requests without a live session get 401 and never reach
// the handler.
func RequireAuth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := resolveUser(r, sessions)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid session required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the user identity if a live session token is present
// but lets anonymous requests through. Handlers behind it see the ownerless
// rows only.
func OptionalAuth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := resolveUser(r, sessions); ok {
				r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// resolveUser extracts the session token from the request and validates it.
// Shared by RequireAuth and OptionalAuth.
func resolveUser(r *http.Request, sessions SessionResolver) (string, bool) {
	token := TokenFromRequest(r)
	if token == "" {
		return "", false
	}
	return sessions.CurrentUser(r.Context(), token)
}

// TokenFromRequest looks for the session token in the session cookie, falling
// back to an Authorization: Bearer header so curl and scripted clients don't
// need a cookie jar. Returns "" when the request carries no token.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
