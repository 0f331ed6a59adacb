// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered user account.
//
// Username and email are both unique (case-insensitively, enforced by the
// database) and immutable after signup. The password is never stored in
// plaintext: PasswordHash is a PBKDF2 digest derived with the per-user Salt,
// and both fields carry the `json:"-"` tag so they can never leak through an
// API response, no matter which handler serializes the struct.
//
// Accounts are soft-deleted: deactivation flips IsActive to false and the
// row stays in place so historical search data keeps its owner reference.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLogin    time.Time `json:"lastLogin"`
	IsActive     bool      `json:"isActive"`
}
