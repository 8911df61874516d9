// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxUsernameLength = 80
	// bcrypt only looks at the first 72 bytes and rejects longer input.
	maxPasswordBytes = 72
)

// ValidateUsername checks the registration constraints on a username.
// Usernames are compared case-sensitively and are not trimmed.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return fmt.Errorf("username must not exceed %d characters", maxUsernameLength)
	}
	return nil
}

// ValidatePassword checks that a password can be hashed.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("password must not exceed %d bytes", maxPasswordBytes)
	}
	return nil
}
