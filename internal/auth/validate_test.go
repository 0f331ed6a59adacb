package auth

import (
	"errors"
	"testing"

	"github.com/MrJayasuriya/Ai-scraper/internal/apperror"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid simple", "alice", false},
		{"valid with underscore and digits", "lead_hunter_99", false},
		{"minimum length", "abc", false},
		{"maximum length", "abcdefghijklmnopqrstuvwxyz1234", false}, // 30 chars
		{"too short", "ab", true},
		{"too long", "abcdefghijklmnopqrstuvwxyz12345", true}, // 31 chars
		{"spaces", "al ice", true},
		{"hyphen", "al-ice", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("ValidateUsername(%q) error is not ErrValidation: %v", tt.username, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"a@x.com", false},
		{"first.last+tag@sub.example.co", false},
		{"no-at-sign", true},
		{"@example.com", true},
		{"user@", true},
		{"user@example", true}, // no TLD
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Passw0rd", false},
		{"valid long", "Correct-Horse-Battery-1", false},
		{"too short", "Pw0rd", true},
		{"no uppercase", "passw0rd", true},
		{"no lowercase", "PASSW0RD", true},
		{"no digit", "Password", true},
		{"the weak one", "weak", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}
