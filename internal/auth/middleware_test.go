package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeResolver maps tokens to user IDs. Anything not in the map is treated
// as a dead session.
type fakeResolver struct {
	sessions map[string]string
}

func (f *fakeResolver) CurrentUser(_ context.Context, token string) (string, bool) {
	id, ok := f.sessions[token]
	return id, ok
}

// echoUserHandler writes the user ID from the context, or "anonymous".
func echoUserHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := UserIDFromContext(r.Context()); ok {
			w.Write([]byte(id))
			return
		}
		w.Write([]byte("anonymous"))
	})
}

func TestRequireAuth_ValidCookie(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]string{"tok-1": "user-1"}}
	handler := RequireAuth(resolver)(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/results", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-1"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.String() != "user-1" {
		t.Errorf("body = %q, want %q", rr.Body.String(), "user-1")
	}
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]string{"tok-1": "user-1"}}
	handler := RequireAuth(resolver)(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/results", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestRequireAuth_MissingToken(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]string{}}
	handler := RequireAuth(resolver)(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/results", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	// The body is JSON, so the header has to say so.
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if body := rr.Body.String(); body != `{"error":"unauthorized","message":"valid session required"}` {
		t.Errorf("body = %q", body)
	}
}

func TestRequireAuth_DeadSession(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]string{}}
	handler := RequireAuth(resolver)(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/results", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "logged-out-token"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestTokenFromRequest(t *testing.T) {
	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-cookie"})
		if got := TokenFromRequest(req); got != "tok-cookie" {
			t.Errorf("TokenFromRequest() = %q, want tok-cookie", got)
		}
	})

	t.Run("bearer fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer tok-header")
		if got := TokenFromRequest(req); got != "tok-header" {
			t.Errorf("TokenFromRequest() = %q, want tok-header", got)
		}
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-cookie"})
		req.Header.Set("Authorization", "Bearer tok-header")
		if got := TokenFromRequest(req); got != "tok-cookie" {
			t.Errorf("TokenFromRequest() = %q, want tok-cookie", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := TokenFromRequest(httptest.NewRequest(http.MethodGet, "/", nil)); got != "" {
			t.Errorf("TokenFromRequest() = %q, want empty", got)
		}
	})
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]string{}}
	handler := OptionalAuth(resolver)(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/results", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	// Anonymous requests pass through — the handler just sees no user.
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.String() != "anonymous" {
		t.Errorf("body = %q, want %q", rr.Body.String(), "anonymous")
	}
}
