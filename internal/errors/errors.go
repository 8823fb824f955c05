package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ConfigInvalid indicates a malformed or inconsistent configuration
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InputNotFound indicates the analysis root or blob file does not exist
	InputNotFound ErrorCode = "INPUT_NOT_FOUND"
	// ParseFailed indicates a source file could not be parsed
	ParseFailed ErrorCode = "PARSE_FAILED"
	// IndexUnavailable indicates a SCIP index could not be loaded
	IndexUnavailable ErrorCode = "INDEX_UNAVAILABLE"
	// OutputFailed indicates a report or export could not be written
	OutputFailed ErrorCode = "OUTPUT_FAILED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Error is a catchminer error with a stable code and an optional cause.
type Error struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates an error without a cause.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error around cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// Is reports whether any error in err's chain is an *Error with the given code.
func Is(err error, code ErrorCode) bool {
	var e *Error
	for err != nil {
		if stderrors.As(err, &e) {
			if e.Code == code {
				return true
			}
			err = e.cause
			continue
		}
		return false
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or InternalError.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return InternalError
}
