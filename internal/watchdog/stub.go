//go:build !linux

package watchdog

import (
	"errors"
	"time"
)

// Real is not available on non-Linux platforms.
type Real struct{}

// NewReal returns an error on non-Linux platforms.
func NewReal(path string) (*Real, error) {
	return nil, errors.New("watchdog: not supported on this platform (requires Linux)")
}

// Arm is not implemented on non-Linux platforms.
func (r *Real) Arm(timeout time.Duration) error {
	return errors.New("watchdog: not supported")
}

// Kick is not implemented on non-Linux platforms.
func (r *Real) Kick() error {
	return errors.New("watchdog: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *Real) Close() error {
	return nil
}
