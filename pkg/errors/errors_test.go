package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidBlueprint, "missing key: %s", "blueprint")

	if err.Code != ErrCodeInvalidBlueprint {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidBlueprint)
	}

	if err.Message != "missing key: blueprint" {
		t.Errorf("Message = %v, want %v", err.Message, "missing key: blueprint")
	}

	expected := "INVALID_BLUEPRINT: missing key: blueprint"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidCatalog, cause, "failed to load catalog")

	if err.Code != ErrCodeInvalidCatalog {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidCatalog)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "INVALID_CATALOG: failed to load catalog: unexpected EOF"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeStructuralGraph,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeStructuralGraph, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeStructuralGraph,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("analyze: %w", New(ErrCodeNotFound, "entity")),
			code:     ErrCodeNotFound,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeFileNotFound, "test"), ErrCodeFileNotFound},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidBlueprint, "x"), 400},
		{New(ErrCodeInvalidFormat, "x"), 400},
		{New(ErrCodeNotFound, "x"), 404},
		{New(ErrCodeStructuralGraph, "x"), 422},
		{New(ErrCodeUnsupported, "x"), 501},
		{errors.New("boom"), 500},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
