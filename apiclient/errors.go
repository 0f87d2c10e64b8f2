package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/go-storefront-session/internal/errors"
)

// StatusError is a non-2xx response from the API
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrUnexpectedStatus
}

// FieldMessages decodes a validation error body of the form {"field": ["msg", ...]} or {"field": "msg"}.
// It returns nil when the body has another shape.
func (e *StatusError) FieldMessages() map[string][]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &raw); err != nil || len(raw) == 0 {
		return nil
	}

	fields := make(map[string][]string, len(raw))
	for key, value := range raw {
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			fields[key] = list
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			fields[key] = []string{single}
			continue
		}
		fields[key] = []string{string(value)}
	}
	return fields
}

// Message returns the backend's {"error": ...} or {"detail": ...} message, or "" when the body has neither
func (e *StatusError) Message() string {
	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Detail
}

// StatusCode returns the HTTP status of err when it is a *StatusError, else 0
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
