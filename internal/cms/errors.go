package cms

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a lookup by slug or natural key matches nothing.
	ErrNotFound = errors.New("cms: not found")
	// ErrEmptyRecord is returned when the CMS handed back no record at all.
	ErrEmptyRecord = errors.New("cms: empty record")
)

// ValidationError is one entry of error.details.errors in a Strapi error body.
// Path mixes field names and array indexes, e.g. ["tags", 0].
type ValidationError struct {
	Path    []any  `json:"path"`
	Message string `json:"message"`
	Name    string `json:"name"`
}

// APIError is a non-2xx answer from the CMS.
type APIError struct {
	StatusCode int
	Name       string
	Message    string
	Details    []ValidationError
	Body       string // raw body when it could not be parsed
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cms: HTTP %d %s: %s", e.StatusCode, e.Name, e.Message)
	}
	if e.Body != "" {
		return fmt.Sprintf("cms: HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("cms: HTTP %d", e.StatusCode)
}

// IsUniqueViolation reports whether the error is a 400 validation failure
// saying one of fields must be unique.
func (e *APIError) IsUniqueViolation(fields ...string) bool {
	if e.StatusCode != 400 {
		return false
	}
	for _, d := range e.Details {
		if !strings.Contains(strings.ToLower(d.Message), "unique") {
			continue
		}
		for _, p := range d.Path {
			for _, f := range fields {
				if s, ok := p.(string); ok && s == f {
					return true
				}
			}
		}
	}
	return false
}

// IsUniqueViolation unwraps err looking for an *APIError conflict on fields.
func IsUniqueViolation(err error, fields ...string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.IsUniqueViolation(fields...)
}

// errorEnvelope mirrors {"error": {...}} bodies.
type errorEnvelope struct {
	Error *struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
		Details struct {
			Errors []ValidationError `json:"errors"`
		} `json:"details"`
	} `json:"error"`
}
