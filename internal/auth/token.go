// Package auth provides the building blocks of the authentication core:
// session token generation, password hashing, and credential validation.
//
// Sessions here are deliberately opaque, server-side tokens rather than
// signed claims (JWTs). The session contract requires immediate revocation —
// logout and account deactivation must kill a token right away — and a
// self-contained signed token can't do that without a database lookup anyway.
// So the token is just 32 bytes of randomness, and the sessions table is the
// single source of truth about its state.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes is the entropy of a session token. 32 bytes (256 bits) makes
// guessing a valid token computationally infeasible.
const tokenBytes = 32

// TokenLength is the length of every generated token string:
// 32 bytes base64url-encoded without padding is always 43 characters.
const TokenLength = 43

// GenerateToken returns a new cryptographically random session token.
//
// The only failure mode is the OS entropy source being unavailable, which
// on any modern system effectively never happens — but crypto/rand reports
// it, so we propagate it rather than panic.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
