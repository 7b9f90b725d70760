// Package watchdog wraps the hardware watchdog and the reset-cause
// capture performed at startup. The real implementation drives
// /dev/watchdog; the fake records arms and kicks for tests.
//
// The reset cause is captured into a one-byte mirror file as early as
// possible at boot, before the watchdog is armed. The mirror is
// overwritten on every boot, so a captured value is valid for exactly one
// reboot cycle: it answers "did the PREVIOUS run die by watchdog?".
package watchdog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Watchdog arms and services a hardware watchdog. Failing to Kick within
// the armed timeout forces a full system restart.
type Watchdog interface {
	// Arm sets the timeout and services the watchdog once. On Linux the
	// timeout granularity is one second; sub-second values round up.
	Arm(timeout time.Duration) error

	// Kick services the watchdog, postponing the reset.
	Kick() error

	// Close releases the device without firing it (magic close).
	Close() error
}

// cardReset is the WDIOF_CARDRESET flag in the kernel's watchdog boot
// status: the last reboot was caused by the watchdog itself.
const cardReset = 0x0020

// DefaultDevice and DefaultBootStatusPath locate the first system
// watchdog. DefaultMirrorPath is where the captured reset cause lives;
// /run is rewritten every boot, matching the one-reboot validity of the
// value.
const (
	DefaultDevice         = "/dev/watchdog0"
	DefaultBootStatusPath = "/sys/class/watchdog/watchdog0/bootstatus"
	DefaultMirrorPath     = "/run/fancoold.resetcause"
)

// CausedReboot reports whether a captured reset cause indicates the
// previous reset was forced by the watchdog.
func CausedReboot(cause uint8) bool {
	return cause&cardReset != 0
}

// CaptureResetCause reads the kernel's boot status for the watchdog and
// writes its low byte to the mirror file, overwriting whatever the
// previous boot left there. It returns the captured value.
func CaptureResetCause(bootStatusPath, mirrorPath string) (uint8, error) {
	data, err := os.ReadFile(bootStatusPath)
	if err != nil {
		return 0, fmt.Errorf("read bootstatus: %w", err)
	}
	status, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse bootstatus %q: %w", strings.TrimSpace(string(data)), err)
	}

	cause := uint8(status)
	if err := os.WriteFile(mirrorPath, []byte{cause}, 0o644); err != nil {
		return cause, fmt.Errorf("write reset-cause mirror: %w", err)
	}
	return cause, nil
}

// ReadMirror reads the one-byte reset-cause mirror written by
// CaptureResetCause on this boot.
func ReadMirror(mirrorPath string) (uint8, error) {
	data, err := os.ReadFile(mirrorPath)
	if err != nil {
		return 0, fmt.Errorf("read reset-cause mirror: %w", err)
	}
	if len(data) != 1 {
		return 0, fmt.Errorf("reset-cause mirror: expected 1 byte, got %d", len(data))
	}
	return data[0], nil
}
