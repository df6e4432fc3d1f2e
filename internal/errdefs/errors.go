// Package errdefs defines the error kinds shared by every stage of the tracker.
//
// Callers wrap these sentinels with fmt.Errorf("...: %w", ...) and match them
// with errors.Is, so the kind survives any amount of added context.
package errdefs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the tracker's failure kinds.
var (
	// ErrSourceUnavailable is returned when the frame source cannot be opened.
	// Fatal before the loop starts.
	ErrSourceUnavailable = errors.New("balltrack: source unavailable")

	// ErrFrameRead is returned when a frame cannot be read. The loop ends
	// gracefully when it sees this.
	ErrFrameRead = errors.New("balltrack: frame read failure")

	// ErrEndOfStream is returned by a source that has no more frames.
	ErrEndOfStream = errors.New("balltrack: end of stream")

	// ErrInvalidConfiguration is returned for out-of-range or inconsistent
	// parameters. Never retried.
	ErrInvalidConfiguration = errors.New("balltrack: invalid configuration")

	// ErrInvalidInput is returned for a frame or mask with a zero dimension.
	ErrInvalidInput = errors.New("balltrack: invalid input")
)

// ConfigError describes a single rejected configuration value.
type ConfigError struct {
	// Field is the dotted configuration key, e.g. "locate.radius_min".
	Field string

	// Reason says what is wrong with the value.
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("balltrack: invalid configuration: %s: %s", e.Field, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidConfiguration) hold for every ConfigError.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

// Invalid returns a ConfigError for field formatted with the given reason.
func Invalid(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
