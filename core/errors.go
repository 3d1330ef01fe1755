package core

import (
	"errors"
	"fmt"
)

// Code categorizes failures so callers can branch on the class of error
// without string matching. Codes are stable wire/API values.
type Code string

const (
	// CodeRequestValidation marks a malformed research request. Run-fatal:
	// nothing is launched.
	CodeRequestValidation Code = "request_validation"
	// CodeMisconfigured marks a task whose required tool capability is not
	// available in this process. Fails that task only.
	CodeMisconfigured Code = "misconfigured"
	// CodeTimeout marks a tool call that exceeded its per-call deadline.
	CodeTimeout Code = "timeout"
	// CodeUpstream marks a tool or model backend failure.
	CodeUpstream Code = "upstream"
	// CodeSchemaViolation marks a final answer that did not conform to the
	// task's declared output shape.
	CodeSchemaViolation Code = "schema_violation"
	// CodeIncomplete marks a task that exhausted its step budget without
	// producing a final answer.
	CodeIncomplete Code = "incomplete"
	// CodeSessionBusy marks a second research request on an active session.
	CodeSessionBusy Code = "session_busy"
	// CodeTransport marks a lost client connection, treated as cancellation.
	CodeTransport Code = "transport"
)

// Error is the engine-wide typed error. Code is always set; Err optionally
// wraps an underlying cause and participates in errors.Is/As chains.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// E constructs a typed error from a code and format string.
func E(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapErr attaches a code and message to an underlying error.
func WrapErr(code Code, err error, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf walks the error chain and returns the first Code found, or "" if
// the error carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether the error chain carries the given code.
func IsCode(err error, code Code) bool { return CodeOf(err) == code }
