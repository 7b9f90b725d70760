// Package hal provides hardware access for the fan controller with a
// hardware abstraction boundary. The real implementation uses the Linux
// GPIO character device plus a sysfs IIO ADC channel. The fake
// implementation allows testing without hardware.
package hal

// Hardware is the physical I/O contract of the controller:
// one digital output (fan switch), one digital input (momentary button,
// active low) and one analog input (thermistor divider, 0-255 scale,
// lower = hotter).
type Hardware interface {
	// SetFan switches the fan power output.
	SetFan(on bool) error

	// ButtonPressed returns the logical button state. The raw line is
	// pulled up and shorted to ground by the button, so raw low =
	// pressed.
	ButtonPressed() (bool, error)

	// ReadSensor powers the thermistor divider, waits for the voltage to
	// settle, performs one ADC reading scaled to 0-255 and powers the
	// divider back down. Lower values mean hotter.
	ReadSensor() (uint8, error)

	// Close releases hardware resources.
	Close() error
}

// Line offsets (BCM numbering) and ADC defaults for the reference board.
const (
	DefaultFanLine    = 18 // fan switch output
	DefaultButtonLine = 23 // override button input
	DefaultSupplyLine = 24 // thermistor divider supply output

	DefaultADCPath = "/sys/bus/iio/devices/iio:device0/in_voltage0_raw"
	DefaultADCMax  = 4095 // raw full-scale of the ADC channel
)

// scaleADC maps a raw reading on a 0..max scale to 0-255.
func scaleADC(raw, max int) uint8 {
	if raw < 0 {
		return 0
	}
	if raw > max {
		raw = max
	}
	return uint8(raw * 255 / max)
}
