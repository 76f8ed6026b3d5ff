package auth

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	// MaxPasswordBytes matches bcrypt's input limit; longer inputs are truncated by bcrypt.
	MaxPasswordBytes = 72

	// PasswordSpecialChars is the set a password must draw at least one character from.
	PasswordSpecialChars = "!@#$%^&"
)

// Policy violation messages. These are returned to clients verbatim.
const (
	MsgPasswordTooShort   = "Password must be longer than 8 characters"
	MsgPasswordTooLong    = "Password must be less than 72 characters"
	MsgPasswordEdgeSpaces = "Password must not start or end with empty spaces"
	MsgPasswordComplexity = "Password must contain 1 upper case, lower case, number and special character"
)

// PolicyError reports the first password rule that failed.
type PolicyError struct {
	Message string
}

func (e *PolicyError) Error() string { return e.Message }

// ValidatePassword checks a candidate password against the policy. Rules run in
// order (length, edge whitespace, complexity) and the first failure is returned.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &PolicyError{Message: MsgPasswordTooShort}
	}
	if len(password) > MaxPasswordBytes {
		return &PolicyError{Message: MsgPasswordTooLong}
	}

	first, _ := utf8.DecodeRuneInString(password)
	last, _ := utf8.DecodeLastRuneInString(password)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return &PolicyError{Message: MsgPasswordEdgeSpaces}
	}

	if !meetsComplexity(password) {
		return &PolicyError{Message: MsgPasswordComplexity}
	}
	return nil
}

func meetsComplexity(password string) bool {
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return false
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			special = true
		}
	}
	return lower && upper && digit && special
}
