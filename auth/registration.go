package auth

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	apperrors "github.com/jrsteele09/go-storefront-session/internal/errors"
	"github.com/jrsteele09/go-storefront-session/session"
)

// MinPasswordLength is enforced client-side before a registration is sent
const MinPasswordLength = 8

// ErrInvalidRegistration matches both client-side validation failures and *FieldErrors
var ErrInvalidRegistration = apperrors.ErrInvalidRegistration

// Registration is the body of POST /register/
type Registration struct {
	Username  string       `json:"username"`
	Password  string       `json:"password"`
	Email     string       `json:"email"`
	Role      session.Role `json:"role"`
	FirstName string       `json:"first_name,omitempty"`
	LastName  string       `json:"last_name,omitempty"`
}

func (r Registration) withDefaults() Registration {
	if r.Role == "" {
		r.Role = session.RoleCustomer
	}
	return r
}

// Validate applies the checks the registration form makes before submitting.
// Failures are *ValidationError.
func (r Registration) Validate() error {
	if r.Username == "" || r.Password == "" || r.Email == "" {
		return &ValidationError{Message: "Username, password, and email are required."}
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		return &ValidationError{Message: fmt.Sprintf("Password must be at least %d characters long.", MinPasswordLength)}
	}
	if !r.Role.Valid() {
		return &ValidationError{Message: fmt.Sprintf("Role must be %q or %q.", session.RoleCustomer, session.RoleSeller)}
	}
	return nil
}

// ValidationError is a registration rejected before it was sent. Message is shown to the user as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidRegistration
}

// FieldErrors are per-field messages returned by the backend for a rejected registration
type FieldErrors struct {
	Fields map[string][]string
}

func (e *FieldErrors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return strings.Join(lines, "\n")
}

func (e *FieldErrors) Unwrap() error {
	return apperrors.ErrInvalidRegistration
}
