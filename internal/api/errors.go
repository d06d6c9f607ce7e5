package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/servicem8/sm8-cli/internal/validation"
)

// ValidationError reports a request that was rejected before any HTTP
// call was made: a bad operator, a value that failed coercion, a missing
// required parameter. Field is empty when the error is not tied to a
// single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

// AuthError represents an authentication failure (HTTP 401).
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication error: %s", e.Reason)
}

// ErrNoFieldsToUpdate is returned by update operations when the built
// body is empty. No request is sent.
var ErrNoFieldsToUpdate = errors.New("no fields to update were provided")

// ErrNotArray is returned by list operations when a page body is not a
// JSON array.
var ErrNotArray = errors.New("expected a JSON array response")

// IsValidationError checks if the error is a pre-flight validation
// error. Input-format failures and datetime normalization failures
// count: they are rejected before any request is sent.
func IsValidationError(err error) bool {
	var e *ValidationError
	if errors.As(err, &e) {
		return true
	}
	var ve *validation.Error
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, ErrInvalidDateTime) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrUnsupportedDateType)
}

// IsAuthError checks if the error is an authentication error.
func IsAuthError(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404 ||
			strings.Contains(strings.ToLower(apiErr.Body), "not found")
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
