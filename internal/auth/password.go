package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters.
//
// The users table stores the salt in its own column (separate from the hash),
// so we use PBKDF2 with an explicit salt rather than a scheme like bcrypt
// that embeds the salt in its output string. PBKDF2-SHA256 with a high
// iteration count is deliberately slow: negligible for one login, brutal
// for an attacker trying billions of guesses against a stolen database.
const (
	defaultIterations = 210_000 // OWASP's floor for PBKDF2-SHA256
	saltBytes         = 16
	keyBytes          = 32
)

// PasswordService derives and verifies salted password hashes.
//
// It's a struct (not free functions) so the iteration count can be injected:
// tests use a tiny count to avoid paying ~100ms per hash, production uses
// the default.
type PasswordService struct {
	iterations int
}

// NewPasswordService creates a PasswordService with the production iteration count.
func NewPasswordService() *PasswordService {
	return &PasswordService{iterations: defaultIterations}
}

// NewPasswordServiceForTest creates a PasswordService with a custom (low)
// iteration count. Tests only — a low count is far too weak for real use.
func NewPasswordServiceForTest(iterations int) *PasswordService {
	return &PasswordService{iterations: iterations}
}

// Hash derives a hash for the given plaintext under a freshly generated salt.
// Both return values are base64-encoded and stored in separate columns, which
// also guarantees two users with the same password get different hashes.
func (p *PasswordService) Hash(plaintext string) (hash, salt string, err error) {
	rawSalt := make([]byte, saltBytes)
	if _, err := rand.Read(rawSalt); err != nil {
		return "", "", fmt.Errorf("auth: generating salt: %w", err)
	}

	key := pbkdf2.Key([]byte(plaintext), rawSalt, p.iterations, keyBytes, sha256.New)

	return base64.StdEncoding.EncodeToString(key),
		base64.StdEncoding.EncodeToString(rawSalt),
		nil
}

// Verify recomputes the hash of plaintext under the stored salt and compares
// it against the stored hash in constant time. Returns nil on a match.
//
// subtle.ConstantTimeCompare examines every byte regardless of where the
// first mismatch is, so response timing reveals nothing about how close a
// guess was.
func (p *PasswordService) Verify(hash, salt, plaintext string) error {
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return fmt.Errorf("auth: decoding stored salt: %w", err)
	}
	rawHash, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		return fmt.Errorf("auth: decoding stored hash: %w", err)
	}

	key := pbkdf2.Key([]byte(plaintext), rawSalt, p.iterations, keyBytes, sha256.New)

	if subtle.ConstantTimeCompare(key, rawHash) != 1 {
		return fmt.Errorf("auth: password mismatch")
	}
	return nil
}
