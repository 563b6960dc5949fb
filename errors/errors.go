// Package errors defines the error taxonomy for the protocols SDK.
//
// All SDK errors are represented as SDKError, which provides:
//   - Code: Machine-readable error identifier
//   - Message: Human-readable error description
//   - Layer: Which component layer produced the error (transport, auth, client)
//   - StatusCode: HTTP status of the remote response, or 0 when no response
//     was received (transport failure sentinel)
//   - Cause: Underlying error, if any
//
// Use the provided constructor functions (NewTransportError, NewAuthError,
// NewClientError) to create properly typed errors with automatic layer
// assignment.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a machine-readable error identifier.
type Code string

// Error codes - Transport Layer
const (
	TRANSPORT_ERROR  Code = "TRANSPORT_ERROR"  // no response received (network/timeout)
	REMOTE_REJECTION Code = "REMOTE_REJECTION" // response received with non-2xx status
	DECODE_FAILED    Code = "DECODE_FAILED"
	ENCODE_FAILED    Code = "ENCODE_FAILED"
)

// Error codes - Auth Layer
const (
	AUTHENTICATION_FAILED Code = "AUTHENTICATION_FAILED"
	NO_REFRESH_TOKEN      Code = "NO_REFRESH_TOKEN"
)

// Error codes - Client Layer
const (
	CONFIG_INVALID  Code = "CONFIG_INVALID"
	INVALID_ADDRESS Code = "INVALID_ADDRESS"
	INVALID_REQUEST Code = "INVALID_REQUEST"
)

// SDKError is the base error type for all SDK errors.
type SDKError struct {
	Code       Code
	Message    string
	Layer      string // "transport", "auth", "client"
	StatusCode int    // HTTP status, 0 when no response was received
	Cause      error
}

// Error returns a formatted error string.
func (e *SDKError) Error() string {
	msg := fmt.Sprintf("[%s] %s: %s", e.Layer, e.Code, e.Message)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error, enabling error chain inspection.
func (e *SDKError) Unwrap() error {
	return e.Cause
}

// NewTransportError creates a transport layer error. statusCode is the HTTP
// status of the rejected response, or 0 when no response was received.
func NewTransportError(code Code, message string, statusCode int, cause error) *SDKError {
	return &SDKError{
		Code:       code,
		Message:    message,
		Layer:      "transport",
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// NewAuthError creates an auth layer error.
func NewAuthError(code Code, message string, cause error) *SDKError {
	return &SDKError{
		Code:    code,
		Message: message,
		Layer:   "auth",
		Cause:   cause,
	}
}

// NewClientError creates a client layer error.
func NewClientError(code Code, message string, cause error) *SDKError {
	return &SDKError{
		Code:    code,
		Message: message,
		Layer:   "client",
		Cause:   cause,
	}
}

// Is checks if the target error is an SDKError with the same code.
func (e *SDKError) Is(target error) bool {
	if target == nil {
		return false
	}
	other, ok := target.(*SDKError)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// As checks if err (or any error it wraps) is an SDKError and assigns it.
func As(err error, target **SDKError) bool {
	if err == nil {
		return false
	}
	return stderrors.As(err, target)
}

// HasCode reports whether err (or any error it wraps) is an SDKError with
// the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		if v, ok := err.(*SDKError); ok && v.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 0 if err is not an
// SDKError or no response was received.
func StatusOf(err error) int {
	var sdkErr *SDKError
	if As(err, &sdkErr) {
		return sdkErr.StatusCode
	}
	return 0
}
