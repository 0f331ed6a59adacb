package auth

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/MrJayasuriya/Ai-scraper/internal/apperror"
)

// Format rules, checked before any storage is touched. These match what the
// signup form promises the user.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 8
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ValidateUsername checks the username format: 3–30 characters, letters,
// digits and underscores only.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLength {
		return apperror.ValidationFailed("username", "username must be at least 3 characters long")
	}
	if len(username) > MaxUsernameLength {
		return apperror.ValidationFailed("username", "username must be 30 characters or less")
	}
	if !usernameRe.MatchString(username) {
		return apperror.ValidationFailed("username", "username can only contain letters, numbers, and underscores")
	}
	return nil
}

// ValidateEmail checks the email address format.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return apperror.ValidationFailed("email", "invalid email address")
	}
	return nil
}

// ValidatePassword enforces the password policy: at least 8 characters with
// an uppercase letter, a lowercase letter, and a digit.
//
// The policy is checked character-class by character-class (not with one
// regexp) so the error can name exactly what is missing — the user is going
// to correct and resubmit, so vague messages just cost them attempts.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperror.ValidationFailed("password", "password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasUpper:
		return apperror.ValidationFailed("password", "password must contain at least one uppercase letter")
	case !hasLower:
		return apperror.ValidationFailed("password", "password must contain at least one lowercase letter")
	case !hasDigit:
		return apperror.ValidationFailed("password", "password must contain at least one number")
	}
	return nil
}
