package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassificationSurvivesWrapping(t *testing.T) {
	base := errors.New("connection refused")
	cases := []struct {
		name      string
		err       error
		validate  bool
		notFound  bool
		transient bool
	}{
		{"validation", Validation("quantity", "must be positive"), true, false, false},
		{"not found", NotFound("order", "abc"), false, true, false},
		{"transient", Transient("create order", base), false, false, true},
		{"internal", Internal("create order", base), false, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tc.err)
			if got := IsValidation(wrapped); got != tc.validate {
				t.Errorf("IsValidation = %v, want %v", got, tc.validate)
			}
			if got := IsNotFound(wrapped); got != tc.notFound {
				t.Errorf("IsNotFound = %v, want %v", got, tc.notFound)
			}
			if got := IsTransient(wrapped); got != tc.transient {
				t.Errorf("IsTransient = %v, want %v", got, tc.transient)
			}
		})
	}
}

func TestTransientUnwrapsCause(t *testing.T) {
	base := errors.New("dial tcp: i/o timeout")
	err := Transient("create order", base)
	if !errors.Is(err, base) {
		t.Fatalf("expected errors.Is to reach the cause")
	}
}
