// Package apperr defines the error kinds shared by the authority lifecycle,
// the channel authorization service and the realtime bridge.
//
// Handlers map a Kind to an HTTP status with Status. The Message of an Error is
// safe to show to clients; Cause is for logs only.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind string

const (
	// KindValidation marks malformed or missing input (400).
	KindValidation Kind = "validation"
	// KindNotFound marks a referenced entity that does not exist (404).
	KindNotFound Kind = "not_found"
	// KindForbidden marks a denied authorization (403).
	KindForbidden Kind = "forbidden"
	// KindTransientProvider marks a failed call to the realtime signing provider (502).
	KindTransientProvider Kind = "transient_provider"
	// KindTransaction marks a store level begin/commit failure (500).
	KindTransaction Kind = "transaction"
	// KindTimeout marks an expired deadline on a store or provider call (504).
	KindTimeout Kind = "timeout"
	// KindInternal is everything else (500).
	KindInternal Kind = "internal"
)

// Error is a structured application error.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error without cause.
func New(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Wrap returns an Error carrying cause.
func Wrap(kind Kind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

// Validation returns a validation error with per-field reasons.
func Validation(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    "invalid_input",
		Message: "the given data was invalid",
		Fields:  fields,
	}
}

// InvalidField returns a validation error for a single field.
func InvalidField(field, reason string) *Error {
	return Validation(map[string]string{field: reason})
}

// NotFound returns a not_found error for the named entity.
func NotFound(entity string) *Error {
	return New(KindNotFound, entity+"_not_found", entity+" not found")
}

// Forbidden returns the generic forbidden error. The message never carries
// the reason; cause is kept for logging.
func Forbidden(cause error) *Error {
	return Wrap(KindForbidden, "forbidden", "forbidden", cause)
}

// TransientProvider wraps a failed signing provider call.
func TransientProvider(cause error) *Error {
	return Wrap(KindTransientProvider, "provider_unavailable", "realtime provider failure", cause)
}

// Transaction wraps a store level transaction failure.
func Transaction(cause error) *Error {
	return Wrap(KindTransaction, "transaction_failed", "no changes were applied", cause)
}

// Timeout wraps an expired deadline.
func Timeout(cause error) *Error {
	return Wrap(KindTimeout, "timeout", "operation timed out", cause)
}

// Internal wraps an unexpected failure.
func Internal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}

// KindOf returns the Kind of err, KindInternal for foreign errors and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	return KindInternal
}

// Is reports whether err is an Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HasCode reports whether err is an Error with the given code.
func HasCode(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}

	return false
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case "":
		return http.StatusOK
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindTransientProvider:
		return http.StatusBadGateway
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// FromContext converts a context failure into a Timeout error. Other errors
// are returned unchanged.
func FromContext(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		var ae *Error
		if errors.As(err, &ae) {
			return err
		}

		return Timeout(err)
	}

	return err
}
