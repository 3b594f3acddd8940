package identity

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError is returned for any caller-input problem. Code is a
// stable machine-readable identifier, Message is safe to show to callers.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation error codes
const (
	ErrCodeMissingField = "MISSING_FIELD"
	ErrCodeInvalidEmail = "INVALID_EMAIL"
)

// NewMissingFieldError creates a ValidationError naming the absent field.
func NewMissingFieldError(field string) *ValidationError {
	return &ValidationError{
		Code:    ErrCodeMissingField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

// Normalized is the validated registration tuple handed to the saga.
type Normalized struct {
	Username string
	Email    string
	Password string
}

// emailRe checks the basic local@domain shape. Full RFC 5322 validation is
// deliberately out of scope; the remote platforms re-validate on their side.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Normalize validates raw registration input and returns the trimmed tuple.
func Normalize(username, email, password string) (Normalized, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return Normalized{}, NewMissingFieldError("username")
	}
	if email == "" {
		return Normalized{}, NewMissingFieldError("email")
	}
	if password == "" {
		return Normalized{}, NewMissingFieldError("password")
	}
	if !emailRe.MatchString(email) {
		return Normalized{}, &ValidationError{
			Code:    ErrCodeInvalidEmail,
			Message: fmt.Sprintf("invalid email address: %s", email),
		}
	}

	return Normalized{
		Username: username,
		Email:    email,
		Password: password,
	}, nil
}

var (
	disallowedRe = regexp.MustCompile(`[^a-zA-Z0-9@.+\-_ \t\n]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// SanitizeIdentifier produces the identifier submitted to the external
// platforms: characters outside the allow-list (letters, digits, @ . + - _)
// are stripped and whitespace runs collapse to a single underscore. When
// stripping would leave nothing, the local part of the email is used so the
// result is never empty. The function is idempotent.
func SanitizeIdentifier(raw, email string) string {
	s := sanitize(raw)
	if s == "" {
		s = sanitize(localPart(email))
	}
	if s == "" {
		s = "user"
	}
	return s
}

func sanitize(raw string) string {
	s := disallowedRe.ReplaceAllString(raw, "")
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), "_")
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
