package errdefs

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError_IsInvalidConfiguration(t *testing.T) {
	err := Invalid("locate.radius_min", "must be <= radius_max (%d > %d)", 50, 10)

	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("errors.Is(%v, ErrInvalidConfiguration) = false", err)
	}

	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("errors.As did not find *ConfigError in %v", err)
	}
	if ce.Field != "locate.radius_min" {
		t.Errorf("Field: got %q, want locate.radius_min", ce.Field)
	}
	want := "balltrack: invalid configuration: locate.radius_min: must be <= radius_max (50 > 10)"
	if err.Error() != want {
		t.Errorf("Error(): got %q, want %q", err.Error(), want)
	}
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	tests := []struct {
		name     string
		sentinel error
	}{
		{"source", ErrSourceUnavailable},
		{"read", ErrFrameRead},
		{"eos", ErrEndOfStream},
		{"config", ErrInvalidConfiguration},
		{"input", ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", tt.sentinel))
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("wrapped error lost its kind: %v", wrapped)
			}
			for _, other := range tests {
				if other.sentinel != tt.sentinel && errors.Is(wrapped, other.sentinel) {
					t.Errorf("%v unexpectedly matches %v", wrapped, other.sentinel)
				}
			}
		})
	}
}
