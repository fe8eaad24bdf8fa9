package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"app error passes through", New(CodeInsufficientBalance, "low"), CodeInsufficientBalance},
		{"wrapped app error", fmt.Errorf("outer: %w", New(CodeGameNotFound, "gone")), CodeGameNotFound},
		{"context cancelled", context.Canceled, CodeCancelled},
		{"deadline exceeded", context.DeadlineExceeded, CodeTimeout},
		{"sentinel cancel", ErrCancelled, CodeCancelled},
		{"plain error", errors.New("something broke"), CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := Normalize(tt.err)
			if app.Code != tt.code {
				t.Errorf("Normalize(%v).Code = %q, want %q", tt.err, app.Code, tt.code)
			}
		})
	}

	if Normalize(nil) != nil {
		t.Error("Normalize(nil) should be nil")
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		code      string
		retryable bool
	}{
		{CodeNetworkError, true},
		{CodeTimeout, true},
		{CodeStorageError, true},
		{CodeOperationFailed, true},
		{CodeValidationFailed, false},
		{CodeInsufficientBalance, false},
		{CodeGameNotFound, false},
		{CodeCancelled, false},
	}

	for _, tt := range tests {
		if got := New(tt.code, "x").Retryable(); got != tt.retryable {
			t.Errorf("Retryable(%s) = %v, want %v", tt.code, got, tt.retryable)
		}
	}
}

func TestFromPanic(t *testing.T) {
	tests := []struct {
		name string
		v    any
		code string
	}{
		{"app error", New(CodeStorageError, "db"), CodeStorageError},
		{"error value", errors.New("oops"), CodeUnknown},
		{"string", "boom", CodeUnknown},
		{"arbitrary", 42, CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := FromPanic(tt.v)
			if app.Code != tt.code {
				t.Errorf("FromPanic(%v).Code = %q, want %q", tt.v, app.Code, tt.code)
			}
		})
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("underlying")
	app := New(CodeStorageError, "query failed").WithCause(cause)
	if !errors.Is(app, cause) {
		t.Error("errors.Is should reach the cause through Unwrap")
	}
}

func TestCodeAndIs(t *testing.T) {
	err := New(CodeDuplicateRealm, "exists")
	if Code(err) != CodeDuplicateRealm {
		t.Errorf("Code = %q, want DUPLICATE_REALM", Code(err))
	}
	if !Is(err, CodeDuplicateRealm) {
		t.Error("Is should match by code")
	}
	if Is(errors.New("plain"), CodeDuplicateRealm) {
		t.Error("plain errors must not match domain codes")
	}
	if Code(nil) != "" {
		t.Errorf("Code(nil) = %q, want empty", Code(nil))
	}
}

func TestWithDetails(t *testing.T) {
	app := New(CodeValidationFailed, "bad input").
		WithDetails(map[string]any{"field": "slug"})
	if app.Details["field"] != "slug" {
		t.Errorf("details = %v", app.Details)
	}
}
