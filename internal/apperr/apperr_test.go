package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindMatching(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"not found", NotFound("task %s not found", "42"), ErrNotFound},
		{"forbidden", Forbidden("admin only"), ErrForbidden},
		{"invalid argument", InvalidArgument("hours must be positive"), ErrInvalidArgument},
		{"limit exceeded", LimitExceeded("daily cap"), ErrLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.kind)
			}
			for _, other := range []error{ErrNotFound, ErrForbidden, ErrInvalidArgument, ErrLimitExceeded} {
				if other != tt.kind && errors.Is(tt.err, other) {
					t.Errorf("errors.Is(%v, %v) = true, want false", tt.err, other)
				}
			}
		})
	}
}

func TestMessageFormatting(t *testing.T) {
	err := LimitExceeded("daily limit exceeded: %.2f already logged, %.2f attempted", 5.0, 8.0)
	want := "daily limit exceeded: 5.00 already logged, 8.00 attempted"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrappedThroughFmt(t *testing.T) {
	err := fmt.Errorf("create entry: %w", NotFound("task not found"))
	if !errors.Is(err, ErrNotFound) {
		t.Error("kind should survive further wrapping")
	}
}
