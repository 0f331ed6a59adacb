// Package service contains the business logic layer, between the HTTP
// handlers and the repositories:
//
//	handler (HTTP) → service (rules, orchestration) → repository (SQLite)
//
// Services accept plain values and return domain errors, never HTTP types —
// the same AuthService drives the web handlers and could drive a CLI or a
// background job unchanged.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MrJayasuriya/Ai-scraper/internal/apperror"
	"github.com/MrJayasuriya/Ai-scraper/internal/auth"
	"github.com/MrJayasuriya/Ai-scraper/internal/model"
	"github.com/MrJayasuriya/Ai-scraper/internal/repository"
)

// DefaultSessionTTL is how long a session stays valid after login.
const DefaultSessionTTL = 30 * 24 * time.Hour

// AuthService is the authentication gateway. It validates input before
// touching storage, then orchestrates the credential store (users) and the
// session manager (sessions).
//
// It is stateless between calls: the caller holds the token, the database
// holds everything else.
type AuthService struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
	ttl       time.Duration

	// now is swappable so tests can steer the clock across expiry instants.
	now func() time.Time
}

// NewAuthService creates an AuthService. A ttl of zero selects
// DefaultSessionTTL.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
	ttl time.Duration,
) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		passwords: passwords,
		logger:    logger,
		ttl:       ttl,
		now:       time.Now,
	}
}

// AuthResult bundles the user record and the issued session token so the
// handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// SignUp registers a new account and logs it in.
//
// Validation runs first — malformed input never reaches the database. The
// user insert and the session insert are two separate writes against two
// tables; if the session insert fails the caller simply gets an error and
// no token, and the freshly created account can log in normally later. From
// the caller's perspective the outcome is atomic: either a token or nothing.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := auth.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := auth.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, salt, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// DuplicateIdentity passes through untouched; anything else gets
		// context for the logs.
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user %s: %w", username, err)
	}

	s.logger.Info("user signed up",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	token, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// LogIn verifies credentials and issues a fresh session.
//
// The identifier may be a username or an email, matched case-insensitively.
// Every failure past the empty-input check — unknown identifier, wrong
// password, deactivated account — collapses into the same generic
// AuthenticationFailed so responses can't be used to enumerate accounts.
func (s *AuthService) LogIn(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperror.ValidationFailed("identifier", "username or email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.AuthenticationFailed()
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", identifier, err)
	}

	if !user.IsActive {
		return nil, apperror.AuthenticationFailed()
	}

	if err := s.passwords.Verify(user.PasswordHash, user.Salt, password); err != nil {
		s.logger.Info("failed login attempt", slog.String("userID", user.ID))
		return nil, apperror.AuthenticationFailed()
	}

	user.LastLogin = s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, user.LastLogin); err != nil {
		// The credentials checked out; a failed timestamp write shouldn't
		// lock the user out.
		s.logger.Warn("could not update last login",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
	}

	token, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// createSession issues a fresh random token bound to userID, expiring ttl
// from now.
func (s *AuthService) createSession(ctx context.Context, userID string) (string, error) {
	token, err := auth.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("service/auth: %w", err)
	}

	session := &model.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("service/auth: creating session for user %s: %w", userID, err)
	}

	return token, nil
}

// ValidateSession resolves a token to the user ID it authenticates.
//
// Failure modes, in order: SessionNotFound for a token that was never
// issued, SessionExpired once the expiry instant has passed (the session is
// marked inactive as a side effect, making expiry lazy but permanent), and
// SessionInactive for tokens ended by logout or account deactivation.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperror.SessionNotFound()
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return "", err
	}

	if session.IsActive && session.Expired(s.now()) {
		if err := s.sessions.Invalidate(ctx, token); err != nil {
			s.logger.Warn("could not retire expired session",
				slog.String("sessionID", session.ID),
				slog.String("error", err.Error()),
			)
		}
		return "", apperror.SessionExpired()
	}

	if !session.IsActive {
		return "", apperror.SessionInactive()
	}

	return session.UserID, nil
}

// CurrentUser is the forgiving variant of ValidateSession for page renders:
// any failure just means "anonymous", so callers show a login prompt instead
// of an error page.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (string, bool) {
	userID, err := s.ValidateSession(ctx, token)
	if err != nil {
		return "", false
	}
	return userID, true
}

// GetUser returns the user record for an internal ID. Used by /api/me after
// the middleware has resolved the session.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", userID, err)
	}
	return user, nil
}

// LogOut invalidates the session token. Idempotent — logging out twice, or
// with a token that never existed, succeeds quietly.
func (s *AuthService) LogOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Invalidate(ctx, token); err != nil {
		return fmt.Errorf("service/auth: logging out: %w", err)
	}
	return nil
}

// Deactivate soft-deletes an account and kills every session it owns, so no
// outstanding token survives the account.
func (s *AuthService) Deactivate(ctx context.Context, userID string) error {
	if err := s.users.Deactivate(ctx, userID); err != nil {
		return fmt.Errorf("service/auth: deactivating user %s: %w", userID, err)
	}
	if err := s.sessions.InvalidateAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("service/auth: invalidating sessions for user %s: %w", userID, err)
	}

	s.logger.Info("user deactivated", slog.String("userID", userID))
	return nil
}

// SweepExpired batch-retires sessions past their expiry. The server runs it
// periodically; it is also safe to call at any time.
func (s *AuthService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.SweepExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("service/auth: %w", err)
	}
	if n > 0 {
		s.logger.Info("swept expired sessions", slog.Int64("count", n))
	}
	return n, nil
}
