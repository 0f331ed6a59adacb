package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/MrJayasuriya/Ai-scraper/internal/auth"
	"github.com/MrJayasuriya/Ai-scraper/internal/service"
)

// AuthHandler exposes the authentication gateway over HTTP:
//
//	POST /auth/signup → create account, issue session
//	POST /auth/login  → verify credentials, issue session
//	POST /auth/logout → invalidate the presented session
//	GET  /api/me      → current user's profile
//
// The session token travels in an HttpOnly cookie so page JavaScript can
// never read it; scripted clients may send it as a Bearer header instead.
type AuthHandler struct {
	authSvc *service.AuthService
	logger  *slog.Logger

	// secureCookies should be true behind HTTPS so the browser refuses to
	// send the session cookie over plain HTTP.
	secureCookies bool
	cookieMaxAge  int
}

func NewAuthHandler(authSvc *service.AuthService, secureCookies bool, cookieMaxAge int, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authSvc:       authSvc,
		logger:        logger,
		secureCookies: secureCookies,
		cookieMaxAge:  cookieMaxAge,
	}
}

// signupRequest is the JSON body for POST /auth/signup.
type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the JSON body for POST /auth/login. Identifier may be a
// username or an email.
type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// HandleSignup creates an account and logs it straight in.
//
// HTTP: POST /auth/signup
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_json",
			Message: "request body must be valid JSON",
		})
		return
	}

	result, err := h.authSvc.SignUp(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusCreated, result.User)
}

// HandleLogin verifies credentials and issues a fresh session.
//
// HTTP: POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_json",
			Message: "request body must be valid JSON",
		})
		return
	}

	result, err := h.authSvc.LogIn(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusOK, result.User)
}

// HandleLogout invalidates the presented session server-side and clears the
// cookie. POST, not GET — logout is state-changing.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	// Best effort: whatever token the request carries gets invalidated.
	// A request with no token at all still "succeeds" — the caller wanted
	// to be logged out and they are.
	if token := auth.TokenFromRequest(r); token != "" {
		if err := h.authSvc.LogOut(r.Context(), token); err != nil {
			writeError(w, err)
			return
		}
	}

	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/me (behind RequireAuth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't crash if wiring changes.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid session required",
		})
		return
	}

	user, err := h.authSvc.GetUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("HandleMe: user lookup failed", slog.String("userID", userID))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleDeactivate soft-deletes the authenticated account and kills every
// session it has, then clears the caller's cookie.
//
// HTTP: DELETE /api/me (behind RequireAuth)
func (h *AuthHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid session required",
		})
		return
	}

	if err := h.authSvc.Deactivate(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deactivated"})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   h.cookieMaxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
