package watchdog

import "time"

// Fake records watchdog operations for test assertions. The Clock field
// lets tests control the timestamps attached to kicks.
type Fake struct {
	// Arms records every timeout passed to Arm, in order.
	Arms []time.Duration

	// Kicks records the time of every Kick (including the implicit one
	// inside Arm).
	Kicks []time.Time

	// ArmError, if set, is returned by Arm.
	ArmError error

	// KickError, if set, is returned by Kick.
	KickError error

	// Closed tracks whether Close was called.
	Closed bool

	// Clock returns the current time; defaults to time.Now.
	Clock func() time.Time
}

// NewFake creates a Fake using the real clock.
func NewFake() *Fake {
	return &Fake{Clock: time.Now}
}

// Arm records the timeout and an initial kick.
func (f *Fake) Arm(timeout time.Duration) error {
	if f.ArmError != nil {
		return f.ArmError
	}
	f.Arms = append(f.Arms, timeout)
	return f.Kick()
}

// Kick records a service of the watchdog.
func (f *Fake) Kick() error {
	if f.KickError != nil {
		return f.KickError
	}
	f.Kicks = append(f.Kicks, f.Clock())
	return nil
}

// Close marks the fake as closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}
