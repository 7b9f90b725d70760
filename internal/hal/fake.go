package hal

import "errors"

// Fake is a test double that returns scripted sensor and button values
// and records every fan output write.
type Fake struct {
	// Samples contains scripted sensor readings. Each call to ReadSensor
	// consumes the next one; when exhausted, the last value repeats.
	Samples []uint8

	// Button contains scripted button levels (true = pressed), consumed
	// the same way by ButtonPressed.
	Button []bool

	// FanWrites records every value passed to SetFan, in order.
	FanWrites []bool

	// SensorError, if set, is returned by ReadSensor.
	SensorError error

	// ButtonError, if set, is returned by ButtonPressed.
	ButtonError error

	// FanError, if set, is returned by SetFan.
	FanError error

	// Closed tracks whether Close was called.
	Closed bool

	sampleIdx int
	buttonIdx int
}

// NewFake creates a Fake with the given sensor script. The button reads
// as released unless a script is assigned.
func NewFake(samples []uint8) *Fake {
	return &Fake{Samples: samples}
}

// SetFan records the fan output value.
func (f *Fake) SetFan(on bool) error {
	if f.FanError != nil {
		return f.FanError
	}
	f.FanWrites = append(f.FanWrites, on)
	return nil
}

// ButtonPressed returns the next scripted button level, or false when no
// script is configured.
func (f *Fake) ButtonPressed() (bool, error) {
	if f.ButtonError != nil {
		return false, f.ButtonError
	}
	if len(f.Button) == 0 {
		return false, nil
	}
	v := f.Button[f.buttonIdx]
	if f.buttonIdx < len(f.Button)-1 {
		f.buttonIdx++
	}
	return v, nil
}

// ReadSensor returns the next scripted sensor reading.
// If samples are exhausted, the last one repeats.
func (f *Fake) ReadSensor() (uint8, error) {
	if f.SensorError != nil {
		return 0, f.SensorError
	}
	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}
	v := f.Samples[f.sampleIdx]
	if f.sampleIdx < len(f.Samples)-1 {
		f.sampleIdx++
	}
	return v, nil
}

// Close marks the fake as closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// LastFan returns the most recent fan write, or false when none happened.
func (f *Fake) LastFan() bool {
	if len(f.FanWrites) == 0 {
		return false
	}
	return f.FanWrites[len(f.FanWrites)-1]
}
