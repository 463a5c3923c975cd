// Package simerr implements the simulator's error taxonomy:
// ConfigError, DomainError, TransientError and SkippedGame. It is built on
// cockroachdb/errors so stack traces and wrapped causes survive across
// goroutine boundaries (the worker pool in internal/iteration).
package simerr

import (
	"github.com/cockroachdb/errors"
)

// ConfigError is fatal and is surfaced directly to the caller: missing
// classifier, missing schedule file, malformed stlats, unrecognized
// weather code or blood string.
type ConfigError struct {
	error
}

// NewConfigError builds a ConfigError from a formatted message; use
// WrapConfigError to wrap a cause.
func NewConfigError(format string, args ...interface{}) error {
	return ConfigError{errors.Newf(format, args...)}
}

// WrapConfigError wraps an existing error as a ConfigError.
func WrapConfigError(cause error, format string, args ...interface{}) error {
	return ConfigError{errors.Wrapf(cause, format, args...)}
}

// DomainError indicates an invariant violation: negative multiplier,
// base-map collision, rotation exhaustion, empty probability vector. It is
// fatal to the current simulation; the iteration driver's policy decides
// whether to abort the whole run or skip just this iteration.
type DomainError struct {
	error
}

func NewDomainError(format string, args ...interface{}) error {
	return DomainError{errors.Newf(format, args...)}
}

func WrapDomainError(cause error, format string, args ...interface{}) error {
	return DomainError{errors.Wrapf(cause, format, args...)}
}

// TransientError models a remote roster fetch failure. The caller retries
// up to MaxRetries times with RetryDelay spacing; on final failure it
// falls back to a cached per-day snapshot if present, else raises a
// ConfigError.
type TransientError struct {
	error
}

const (
	MaxRetries = 10
	RetryDelay = 500 // milliseconds
)

func NewTransientError(format string, args ...interface{}) error {
	return TransientError{errors.Newf(format, args...)}
}

func WrapTransientError(cause error, format string, args ...interface{}) error {
	return TransientError{errors.Wrapf(cause, format, args...)}
}

// SkippedGame marks a scheduled game whose outcomes include a reverb
// marker; the iteration driver silently skips it rather than treating it
// as an error.
type SkippedGame struct {
	error
	Reason string
}

func NewSkippedGame(reason string) error {
	return SkippedGame{errors.Newf("skipped game: %s", reason), reason}
}

// IsConfigError reports whether err (or any wrapped cause) is a ConfigError.
func IsConfigError(err error) bool {
	var ce ConfigError
	return errors.As(err, &ce)
}

// IsDomainError reports whether err (or any wrapped cause) is a DomainError.
func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

// IsTransientError reports whether err (or any wrapped cause) is a TransientError.
func IsTransientError(err error) bool {
	var te TransientError
	return errors.As(err, &te)
}

// IsSkippedGame reports whether err (or any wrapped cause) is a SkippedGame.
func IsSkippedGame(err error) bool {
	var sg SkippedGame
	return errors.As(err, &sg)
}
