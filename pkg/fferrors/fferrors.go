package fferrors

import "errors"

// Code is a stable machine-readable failure category. The same codes travel
// from the verification backend through the gateway to the auto-fill caller,
// so host UIs need exactly one rendering path.
type Code string

const (
	// Input and format failures. These fail before any network call.
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeInvalidFormat Code = "INVALID_FORMAT"

	// Transport failures.
	CodeTimeout          Code = "TIMEOUT"
	CodeRequestCancelled Code = "REQUEST_CANCELLED"
	CodeNetworkError     Code = "NETWORK_ERROR"

	// Backend-reported failures, passed through unmodified.
	CodeNotFound     Code = "NOT_FOUND"
	CodeRateLimit    Code = "RATE_LIMIT"
	CodeServerError  Code = "SERVER_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"

	// Data-quality and structural failures raised by the orchestrator.
	CodeInvalidResponse   Code = "INVALID_RESPONSE"
	CodeUnsupportedForm   Code = "UNSUPPORTED_FORM"
	CodeNoFieldsMapped    Code = "NO_FIELDS_MAPPED"
	CodeAutoFillDisabled  Code = "AUTOFILL_DISABLED"
	CodePopulationFailure Code = "POPULATION_FAILURE"
)

// Error wraps engine or backend failures with a stable code. It is
// transport-agnostic and is never allowed to escape the public auto-fill
// boundary as a panic.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates an error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates an error wrapping an existing one. If the wrapped error
// already carries a code, that code is preserved.
func Wrap(err error, code Code, msg string) *Error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf extracts the code from an error, or CodeServerError when the error
// carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeServerError
}

// HasCode checks if an error carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
