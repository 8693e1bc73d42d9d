// Package bridge makes the asynchronous obs-websocket session usable as a
// synchronous request/response API: a single managed Session, a blocking
// timeout-bounded Connect, capability calls with a raw/structured fallback
// for known-defective reply shapes, and composed recording workflows.
package bridge

import (
	"errors"
	"fmt"
)

// Failure taxonomy. Every error returned by this package wraps exactly one
// of these sentinels, so callers can classify with errors.Is.
var (
	// ErrNotConnected means no live Session exists. Detected locally:
	// no remote call is attempted.
	ErrNotConnected = errors.New("not connected to OBS")

	// ErrConnectTimeout means a connect attempt exceeded its bound.
	ErrConnectTimeout = errors.New("connect timed out")

	// ErrProtocol means OBS rejected a call or replied malformed.
	ErrProtocol = errors.New("obs protocol error")

	// ErrValidation means caller-supplied parameters were rejected
	// before any remote call was issued.
	ErrValidation = errors.New("invalid parameters")
)

// protocolf wraps an underlying failure as an ErrProtocol.
func protocolf(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrProtocol, op, err)
}

// Validationf builds an ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
