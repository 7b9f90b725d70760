// Package logic contains the pure fan control state machine.
// This package has NO external dependencies (no GPIO, watchdog, OS, or
// time.Sleep). Time is represented as an injected tick counter, one tick
// per firing of the main loop's periodic timer (~64ms).
package logic

// Tick is a monotonically wrapping tick counter. One tick is one firing
// of the periodic timer, ~64ms. All durations in this package are tick
// counts, so any single measurable interval is < 256 ticks (~16s).
type Tick uint8

// Age returns the number of ticks elapsed from since to now.
// The subtraction is modular, so it stays correct across counter wrap
// (now=2, since=254 -> 4).
func Age(now, since Tick) Tick {
	return now - since
}

// Override is the manual fan override mode, cycled by button presses.
type Override uint8

const (
	// OverrideNone leaves the fan under automatic thermal control.
	OverrideNone Override = iota
	// OverrideOn forces the fan on regardless of temperature.
	OverrideOn
	// OverrideOff forces the fan off regardless of temperature.
	OverrideOff
)

// Next returns the override that follows o in the button cycle:
// NONE -> ON -> OFF -> NONE.
func (o Override) Next() Override {
	switch o {
	case OverrideNone:
		return OverrideOn
	case OverrideOn:
		return OverrideOff
	default:
		return OverrideNone
	}
}

// String returns the override name for logging.
func (o Override) String() string {
	switch o {
	case OverrideOn:
		return "ON"
	case OverrideOff:
		return "OFF"
	default:
		return "NONE"
	}
}

// Params are the tuning constants for a Controller.
// The sensor convention is inverted: a LOWER reading means HOTTER
// (thermistor resistance drops as temperature rises).
type Params struct {
	// SampleInterval is the number of ticks between temperature samples.
	SampleInterval Tick
	// CoolTime is how many ticks the fan stays on after the sensor
	// stops reading hot.
	CoolTime Tick
	// HotThreshold: readings below this mean hot.
	HotThreshold uint8
	// CoolThreshold: readings above this mean cool. Readings between the
	// two thresholds leave the thermal state unchanged (hysteresis
	// dead-band, avoids output chatter).
	CoolThreshold uint8
	// BootFanTicks is how long the fan is forced on at power-up,
	// regardless of the first sample (startup self-test / flush).
	BootFanTicks Tick
}

// DefaultParams returns the tuning used by the bench supply hardware:
// 32 ticks (~2s) between samples, 125 ticks (~8s) of cool-down,
// hot below raw value 23, cool above 27, ~2s of fan at boot.
func DefaultParams() Params {
	return Params{
		SampleInterval: 32,
		CoolTime:       125,
		HotThreshold:   23,
		CoolThreshold:  27,
		BootFanTicks:   31,
	}
}
