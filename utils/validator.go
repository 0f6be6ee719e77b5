// Package utils holds small input validation helpers shared by the
// controllers and seed tooling.
package utils

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail reports whether email looks like a deliverable address.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword applies the minimum password policy. The returned
// message is safe to send back to the client.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput trims surrounding whitespace and strips null bytes from
// free-text fields before they reach the database.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	return strings.ReplaceAll(input, "\x00", "")
}
