package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Error codes used across services. These are stable string identifiers,
// not exception types: handlers map them to HTTP statuses and clients key
// UI copy off them.
const (
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeInsufficientBalance  = "INSUFFICIENT_BALANCE"
	CodeDuplicateWallet      = "DUPLICATE_WALLET"
	CodeWalletNotFound       = "WALLET_NOT_FOUND"
	CodeDuplicateRealm       = "DUPLICATE_REALM"
	CodeGameNotFound         = "GAME_NOT_FOUND"
	CodeRealmNotFound        = "REALM_NOT_FOUND"
	CodeConfigNotFound       = "CONFIG_NOT_FOUND"
	CodeOperationFailed      = "OPERATION_FAILED"
	CodeStorageError         = "STORAGE_ERROR"
	CodeNetworkError         = "NETWORK_ERROR"
	CodeTimeout              = "TIMEOUT"
	CodeCancelled            = "CANCELLED"
	CodeUnknown              = "UNKNOWN_ERROR"
)

// AppError is the structured error every fallible operation resolves to,
// regardless of the shape of whatever was originally raised.
type AppError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
	cause     error
}

func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Timestamp: time.Now()}
}

func Newf(code, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.cause }

// WithDetails attaches context for the client; returns the receiver for chaining.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// WithCause keeps the underlying error reachable via errors.Is/As.
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// Retryable reports whether the error class is worth retrying. Validation
// and not-found errors are terminal: repeating the same call cannot succeed.
func (e *AppError) Retryable() bool {
	switch e.Code {
	case CodeNetworkError, CodeTimeout, CodeStorageError, CodeOperationFailed:
		return true
	}
	return false
}

// Normalize converts an arbitrary error into an *AppError. Existing
// AppErrors pass through unchanged; context errors map to CANCELLED and
// TIMEOUT; everything else becomes UNKNOWN_ERROR with the original message.
func Normalize(err error) *AppError {
	if err == nil {
		return nil
	}
	var app *AppError
	if errors.As(err, &app) {
		return app
	}
	switch {
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return New(CodeCancelled, "operation cancelled").WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return New(CodeTimeout, "operation timed out").WithCause(err)
	}
	return New(CodeUnknown, err.Error()).WithCause(err)
}

// FromPanic normalizes a recovered panic value.
func FromPanic(v any) *AppError {
	switch t := v.(type) {
	case *AppError:
		return t
	case error:
		return New(CodeUnknown, t.Error()).WithCause(t)
	case string:
		return New(CodeUnknown, t)
	default:
		return Newf(CodeUnknown, "%v", v)
	}
}

// Code extracts the code from any error, UNKNOWN_ERROR when unclassified.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return CodeUnknown
}

// Is matches errors by code.
func Is(err error, code string) bool {
	return Code(err) == code
}

// ErrCancelled marks a cooperative cancellation.
var ErrCancelled = errors.New("cancelled")
