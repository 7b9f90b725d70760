//go:build !linux

package hal

import "errors"

// Real is not available on non-Linux platforms.
type Real struct{}

// NewReal returns an error on non-Linux platforms.
func NewReal(chipName string, fanLine, buttonLine, supplyLine int, adcPath string, adcMax int) (*Real, error) {
	return nil, errors.New("hal: not supported on this platform (requires Linux)")
}

// SetFan is not implemented on non-Linux platforms.
func (r *Real) SetFan(on bool) error {
	return errors.New("hal: not supported")
}

// ButtonPressed is not implemented on non-Linux platforms.
func (r *Real) ButtonPressed() (bool, error) {
	return false, errors.New("hal: not supported")
}

// ReadSensor is not implemented on non-Linux platforms.
func (r *Real) ReadSensor() (uint8, error) {
	return 0, errors.New("hal: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *Real) Close() error {
	return nil
}
