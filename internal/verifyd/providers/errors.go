// Package providers holds the HTTP clients for the upstream person and
// corporate registries, with a normalized failure taxonomy so the service
// layer can translate outcomes without inspecting raw provider errors.
package providers

import (
	"errors"
	"fmt"
)

// Category classifies upstream registry failures.
type Category string

const (
	// CategoryTimeout indicates the registry took too long to respond.
	CategoryTimeout Category = "timeout"

	// CategoryNotFound indicates no record exists for the identifier.
	CategoryNotFound Category = "not_found"

	// CategoryRateLimited indicates the registry rejected us for volume.
	CategoryRateLimited Category = "rate_limited"

	// CategoryOutage indicates the registry is unreachable or down.
	CategoryOutage Category = "outage"

	// CategoryAuthentication indicates credential or permission issues.
	CategoryAuthentication Category = "authentication"

	// CategoryBadData indicates the registry rejected our request data.
	CategoryBadData Category = "bad_data"

	// CategoryContractMismatch indicates the registry response no longer
	// parses against the shape we expect.
	CategoryContractMismatch Category = "contract_mismatch"

	// CategoryInternal indicates an unexpected failure on our side.
	CategoryInternal Category = "internal"
)

// Error wraps a registry failure with its normalized category.
type Error struct {
	Category Category
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s [%s]: %s: %v", e.Provider, e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("provider %s [%s]: %s", e.Provider, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a categorized provider error.
func NewError(category Category, provider, message string, err error) *Error {
	return &Error{Category: category, Provider: provider, Message: message, Err: err}
}

// CategoryOf extracts the category from an error chain, defaulting to
// internal for anything uncategorized.
func CategoryOf(err error) Category {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Category
	}
	return CategoryInternal
}
