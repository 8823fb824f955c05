package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		wantParts []string
	}{
		{
			name:      "with cause",
			err:       Wrap(IndexUnavailable, "cannot read index.scip", errors.New("permission denied")),
			wantParts: []string{"INDEX_UNAVAILABLE", "cannot read index.scip", "permission denied"},
		},
		{
			name:      "without cause",
			err:       New(ConfigInvalid, "patterns.mode must be all or first"),
			wantParts: []string{"CONFIG_INVALID", "patterns.mode must be all or first"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want it to contain %q", got, part)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(OutputFailed, "write CatchBlock.txt", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if New(InternalError, "x").Unwrap() != nil {
		t.Error("Unwrap of an error without cause should be nil")
	}
}

func TestIs(t *testing.T) {
	inner := New(InputNotFound, "no such directory")
	outer := Wrap(ConfigInvalid, "input.root", inner)
	wrapped := fmt.Errorf("analyze: %w", outer)

	if !Is(wrapped, ConfigInvalid) {
		t.Error("Is should match the outer code through fmt wrapping")
	}
	if !Is(wrapped, InputNotFound) {
		t.Error("Is should match a code further down the chain")
	}
	if Is(wrapped, ParseFailed) {
		t.Error("Is should not match an absent code")
	}
	if Is(nil, InternalError) {
		t.Error("Is(nil) should be false")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("x: %w", New(ParseFailed, "bad"))); got != ParseFailed {
		t.Errorf("CodeOf = %s, want %s", got, ParseFailed)
	}
	if got := CodeOf(errors.New("plain")); got != InternalError {
		t.Errorf("CodeOf(plain) = %s, want %s", got, InternalError)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(ParseFailed, "syntax").WithDetails(map[string]int{"line": 3})
	if err.Details == nil {
		t.Error("WithDetails should set details")
	}
}
