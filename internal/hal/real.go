//go:build linux

package hal

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// settleDelay is how long the thermistor divider is powered before the
// ADC reading is taken.
const settleDelay = time.Millisecond

// readAttempts bounds the defensive re-read on transient ADC errors
// (the kernel driver can return EAGAIN mid-conversion).
const readAttempts = 3

// Real drives actual hardware: two GPIO output lines (fan switch, sensor
// supply), one input line (button) and a sysfs IIO voltage channel.
type Real struct {
	chip   *gpiocdev.Chip
	fan    *gpiocdev.Line
	button *gpiocdev.Line
	supply *gpiocdev.Line

	adcPath string
	adcMax  int
}

// NewReal opens the GPIO chip and requests the three lines. The button
// line is pulled up; the fan and supply lines start low.
func NewReal(chipName string, fanLine, buttonLine, supplyLine int, adcPath string, adcMax int) (*Real, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	fan, err := chip.RequestLine(fanLine, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request fan line %d: %w", fanLine, err)
	}

	button, err := chip.RequestLine(buttonLine, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		fan.Close()
		chip.Close()
		return nil, fmt.Errorf("request button line %d: %w", buttonLine, err)
	}

	supply, err := chip.RequestLine(supplyLine, gpiocdev.AsOutput(0))
	if err != nil {
		button.Close()
		fan.Close()
		chip.Close()
		return nil, fmt.Errorf("request sensor supply line %d: %w", supplyLine, err)
	}

	if adcMax <= 0 {
		adcMax = DefaultADCMax
	}

	return &Real{
		chip:    chip,
		fan:     fan,
		button:  button,
		supply:  supply,
		adcPath: adcPath,
		adcMax:  adcMax,
	}, nil
}

// SetFan switches the fan power output.
func (r *Real) SetFan(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := r.fan.SetValue(v); err != nil {
		return fmt.Errorf("set fan line: %w", err)
	}
	return nil
}

// ButtonPressed returns the logical button state.
// The line is pulled up, so raw low (0) = pressed.
func (r *Real) ButtonPressed() (bool, error) {
	raw, err := r.button.Value()
	if err != nil {
		return false, fmt.Errorf("read button line: %w", err)
	}
	return raw == 0, nil
}

// ReadSensor powers the divider, settles, reads the ADC and powers down.
// The supply is switched off even when the read fails, so a failed sample
// never leaves the divider drawing current.
func (r *Real) ReadSensor() (uint8, error) {
	if err := r.supply.SetValue(1); err != nil {
		return 0, fmt.Errorf("enable sensor supply: %w", err)
	}
	time.Sleep(settleDelay)

	raw, err := r.readADC()

	if offErr := r.supply.SetValue(0); offErr != nil && err == nil {
		err = fmt.Errorf("disable sensor supply: %w", offErr)
	}
	if err != nil {
		return 0, err
	}

	return scaleADC(raw, r.adcMax), nil
}

// readADC reads the raw sysfs value, retrying transient failures.
func (r *Real) readADC() (int, error) {
	var lastErr error
	for i := 0; i < readAttempts; i++ {
		data, err := os.ReadFile(r.adcPath)
		if err != nil {
			lastErr = fmt.Errorf("read adc %s: %w", r.adcPath, err)
			continue
		}
		raw, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			lastErr = fmt.Errorf("parse adc value %q: %w", strings.TrimSpace(string(data)), err)
			continue
		}
		return raw, nil
	}
	return 0, lastErr
}

// Close turns the fan and supply off and reverts all lines to inputs so
// the pins are in a safe state for whatever runs next.
func (r *Real) Close() error {
	var errs []error

	for _, l := range []struct {
		name string
		line *gpiocdev.Line
		out  bool
	}{
		{"fan", r.fan, true},
		{"supply", r.supply, true},
		{"button", r.button, false},
	} {
		if l.line == nil {
			continue
		}
		if l.out {
			if err := l.line.SetValue(0); err != nil {
				errs = append(errs, fmt.Errorf("clear %s line: %w", l.name, err))
			}
		}
		if err := l.line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s line: %w", l.name, err))
		}
		if err := l.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s line: %w", l.name, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
