package model

import "time"

// Session binds a random opaque token to a user for a limited time.
//
// LIFECYCLE:
// A session is created at signup or login and stays valid while IsActive is
// true and ExpiresAt is in the future. It ends in exactly one of three ways:
//   - the expiry instant passes (marked inactive lazily on validation)
//   - an explicit logout invalidates it
//   - the owning account is deactivated, which invalidates all of its sessions
//
// All three are terminal — an invalidated or expired session is never
// reactivated. Many sessions may exist per user (one per device/browser).
//
// The token itself is the only secret: 32 bytes from crypto/rand rendered as
// a fixed-length base64url string. It carries no claims and cannot be decoded;
// everything about the session lives in this row.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsActive  bool      `json:"isActive"`
}

// Expired reports whether the session's expiry instant has passed at time now.
// A session is valid strictly before ExpiresAt; at or after it, it is expired.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
