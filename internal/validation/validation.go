package validation

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

var (
	upperPattern    = regexp.MustCompile(`[A-Z]`)
	lowerPattern    = regexp.MustCompile(`[a-z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
	specialPattern  = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	otpPattern      = regexp.MustCompile(`^[0-9]+$`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("Email is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("Invalid email address")
	}

	return nil
}

// ValidatePassword enforces the backend password policy
func ValidatePassword(password string) error {
	switch {
	case len(password) < 8:
		return errors.New("Password must be at least 8 characters long")
	case !upperPattern.MatchString(password):
		return errors.New("Password must contain at least one uppercase letter")
	case !lowerPattern.MatchString(password):
		return errors.New("Password must contain at least one lowercase letter")
	case !digitPattern.MatchString(password):
		return errors.New("Password must contain at least one digit")
	case !specialPattern.MatchString(password):
		return errors.New("Password must contain at least one special character")
	}
	return nil
}

// ValidateRequired validates that a string is not empty
func ValidateRequired(value, message string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(message)
	}
	return nil
}

// ValidateUsername validates a username
func ValidateUsername(username string) error {
	switch {
	case len(username) < 3:
		return errors.New("Username must be at least 3 characters")
	case len(username) > 50:
		return errors.New("Username must not exceed 50 characters")
	case !usernamePattern.MatchString(username):
		return errors.New("Username can only contain letters, numbers, and underscores")
	}
	return nil
}

// ValidateOTP validates a one-time password
func ValidateOTP(otp string) error {
	if len(otp) != 6 {
		return errors.New("OTP must be 6 digits")
	}
	if !otpPattern.MatchString(otp) {
		return errors.New("OTP must contain only digits")
	}
	return nil
}

// ValidateConfirmation checks that a repeated password matches
func ValidateConfirmation(password, confirm string) error {
	if confirm == "" {
		return errors.New("Please confirm your password")
	}
	if password != confirm {
		return errors.New("Passwords don't match")
	}
	return nil
}
