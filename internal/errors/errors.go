// Package errors provides shared error types for the tool directory server.
package errors

import (
	"errors"
	"fmt"
)

// LoadError indicates a catalog data resource could not be fetched or decoded.
type LoadError struct {
	Resource string // "categories.json", "tools.json"
	Location string // resolved URL or file path
	Err      error
}

func (e *LoadError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("failed to load %s from %s: %v", e.Resource, e.Location, e.Err)
	}
	return fmt.Sprintf("failed to load %s: %v", e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a LoadError.
func NewLoadError(resource, location string, err error) *LoadError {
	return &LoadError{
		Resource: resource,
		Location: location,
		Err:      err,
	}
}

// StatusError indicates a data source answered with a non-2xx HTTP status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// ValidationError indicates invalid configuration or input parameters.
type ValidationError struct {
	Field   string // field name that failed validation
	Value   string // the invalid value
	Message string // human-readable error message
}

func (e *ValidationError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("validation failed for %s=%q: %s", e.Field, e.Value, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsLoad returns true if err is or wraps a LoadError.
func IsLoad(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// IsStatus returns true if err is or wraps a StatusError.
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// IsValidation returns true if err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
