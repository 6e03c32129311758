package validation

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SanitizeEmail normalizes an address the way registration stores it.
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPassword enforces the minimum password rule applied at
// registration and reset.
func IsValidPassword(password string) bool {
	return len(password) >= 8
}

// IsValidOTP checks the 6-digit numeric shape of a verification code.
func IsValidOTP(otp string) bool {
	if len(otp) != 6 {
		return false
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
