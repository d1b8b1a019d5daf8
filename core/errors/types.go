// ABOUTME: Custom error types for the ad tracking core
// ABOUTME: Separates user-correctable input errors from per-keyword fetch failures

package errors

import (
	"errors"
	"fmt"
)

// MissingColumnError is returned when tabular keyword input lacks the requested column
type MissingColumnError struct {
	Column    string
	Available []string
}

// Error implements the error interface
func (e *MissingColumnError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("keyword column %q not found: input has no header row", e.Column)
	}
	return fmt.Sprintf("keyword column %q not found (available: %v)", e.Column, e.Available)
}

// FetchFailureError describes why the ads for one keyword could not be fetched.
// The fetcher converts it into a sentinel record rather than returning it.
type FetchFailureError struct {
	Keyword string
	Err     error
}

// Error implements the error interface
func (e *FetchFailureError) Error() string {
	return fmt.Sprintf("failed to fetch ads for %q: %v", e.Keyword, e.Err)
}

// Unwrap returns the underlying cause
func (e *FetchFailureError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents an error from an external API
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// IsMissingColumn checks if an error is a MissingColumnError
func IsMissingColumn(err error) bool {
	var missingErr *MissingColumnError
	return errors.As(err, &missingErr)
}

// IsFetchFailure checks if an error is a FetchFailureError
func IsFetchFailure(err error) bool {
	var fetchErr *FetchFailureError
	return errors.As(err, &fetchErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
