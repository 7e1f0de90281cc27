package account

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether the input looks like an email address.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsWeakPassword applies the platform password rule: at least 6 characters,
// no "password" substring and none of the blocklisted common passwords.
func IsWeakPassword(password string) bool {
	if len(password) < 6 {
		return true
	}
	lower := strings.ToLower(password)
	if strings.Contains(lower, "password") {
		return true
	}
	return password == "123456" || password == "qwerty"
}
