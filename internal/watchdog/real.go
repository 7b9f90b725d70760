//go:build linux

package watchdog

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// Real drives a /dev/watchdog device. Opening the device starts the
// countdown immediately on most drivers, so the caller must Arm (or at
// least Kick) promptly after NewReal.
type Real struct {
	fd   int
	path string
}

// NewReal opens the watchdog device.
func NewReal(path string) (*Real, error) {
	fd, err := unix.Open(path, unix.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Real{fd: fd, path: path}, nil
}

// Arm sets the timeout (rounded up to whole seconds, minimum one) and
// services the watchdog once.
func (r *Real) Arm(timeout time.Duration) error {
	secs := int((timeout + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	if err := unix.IoctlSetPointerInt(r.fd, unix.WDIOC_SETTIMEOUT, secs); err != nil {
		return fmt.Errorf("set %s timeout to %ds: %w", r.path, secs, err)
	}
	return r.Kick()
}

// Kick services the watchdog.
func (r *Real) Kick() error {
	if err := unix.IoctlWatchdogKeepalive(r.fd); err != nil {
		return fmt.Errorf("keepalive %s: %w", r.path, err)
	}
	return nil
}

// Close disarms the watchdog with the magic-close byte and releases the
// device. Without the 'V' write many drivers fire on close.
func (r *Real) Close() error {
	if _, err := unix.Write(r.fd, []byte{'V'}); err != nil {
		unix.Close(r.fd)
		return fmt.Errorf("magic close %s: %w", r.path, err)
	}
	if err := unix.Close(r.fd); err != nil {
		return fmt.Errorf("close %s: %w", r.path, err)
	}
	return nil
}
