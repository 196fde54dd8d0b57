package errors

import (
	"errors"
	"fmt"
)

// Error codes for the failure classes a booking client can hit. Configuration
// errors are integration mistakes and fatal by design; everything else is
// recoverable by retrying the operation that produced it.
const (
	CodeConfiguration   = "CONFIGURATION_ERROR"
	CodeTransport       = "TRANSPORT_ERROR"
	CodeProtocol        = "PROTOCOL_ERROR"
	CodeSlotUnavailable = "SLOT_UNAVAILABLE"
	CodeValidation      = "VALIDATION_ERROR"
)

// MsgSlotUnavailable is shown verbatim when a claim succeeds at the HTTP level
// but the server reports the slot as taken.
const MsgSlotUnavailable = "This time slot is no longer available"

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Configuration reports a programming-contract violation, e.g. constructing a
// component without a configuration. Not recoverable at runtime.
func Configuration(message string) *AppError {
	return New(CodeConfiguration, message)
}

// Transport wraps a network-level failure, keeping the underlying message
// visible to the consumer.
func Transport(err error) *AppError {
	if err == nil {
		return New(CodeTransport, "Unknown error occurred")
	}
	return Wrap(err, CodeTransport, err.Error())
}

// Protocol reports a non-2xx response. Only the status text is surfaced, the
// response body carries no guaranteed shape.
func Protocol(prefix, statusText string) *AppError {
	return New(CodeProtocol, fmt.Sprintf("%s: %s", prefix, statusText))
}

// SlotUnavailable is the business-rule rejection of a claim whose HTTP call
// succeeded.
func SlotUnavailable() *AppError {
	return New(CodeSlotUnavailable, MsgSlotUnavailable)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// CodeOf extracts the AppError code from anywhere in err's chain, or returns
// the empty string for foreign errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsConfiguration(err error) bool { return CodeOf(err) == CodeConfiguration }
func IsTransport(err error) bool     { return CodeOf(err) == CodeTransport }
func IsProtocol(err error) bool      { return CodeOf(err) == CodeProtocol }
func IsSlotUnavailable(err error) bool {
	return CodeOf(err) == CodeSlotUnavailable
}
