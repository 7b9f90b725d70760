// Package config loads the daemon configuration from a YAML file,
// falling back to defaults for the reference board wiring. Command-line
// flags may override individual values after loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/fancoold/internal/hal"
	"github.com/sweeney/fancoold/internal/logic"
	"github.com/sweeney/fancoold/internal/watchdog"
)

// Config is the full daemon configuration.
type Config struct {
	// Chip is the GPIO character device name.
	Chip string `yaml:"chip"`
	// FanLine is the fan switch output line offset.
	FanLine int `yaml:"fan_line"`
	// ButtonLine is the override button input line offset.
	ButtonLine int `yaml:"button_line"`
	// SensorSupplyLine is the thermistor divider supply output offset.
	SensorSupplyLine int `yaml:"sensor_supply_line"`
	// ADCPath is the sysfs IIO raw voltage file for the thermistor.
	ADCPath string `yaml:"adc_path"`
	// ADCMax is the raw full-scale value of the ADC channel.
	ADCMax int `yaml:"adc_max"`

	// WatchdogDevice is the watchdog character device. Empty disables
	// the watchdog entirely (bench use only: hang detection is lost).
	WatchdogDevice string `yaml:"watchdog_device"`
	// BootStatusPath is the sysfs bootstatus file for the same device.
	BootStatusPath string `yaml:"bootstatus_path"`
	// MirrorPath is where the captured reset cause is written each boot.
	MirrorPath string `yaml:"mirror_path"`

	// TickMs is the loop period in milliseconds.
	TickMs int `yaml:"tick_ms"`
	// SampleIntervalTicks is the number of ticks between temperature
	// samples.
	SampleIntervalTicks uint8 `yaml:"sample_interval_ticks"`
	// CoolTimeTicks is the cool-down grace period in ticks.
	CoolTimeTicks uint8 `yaml:"cool_time_ticks"`
	// HotThreshold and CoolThreshold bound the hysteresis dead-band on
	// the 0-255 sensor scale (lower reading = hotter).
	HotThreshold  uint8 `yaml:"hot_threshold"`
	CoolThreshold uint8 `yaml:"cool_threshold"`
	// BootFanTicks is how long the fan is forced on at power-up.
	BootFanTicks uint8 `yaml:"boot_fan_ticks"`
}

// Default returns the configuration for the reference board.
func Default() Config {
	p := logic.DefaultParams()
	return Config{
		Chip:             "gpiochip0",
		FanLine:          hal.DefaultFanLine,
		ButtonLine:       hal.DefaultButtonLine,
		SensorSupplyLine: hal.DefaultSupplyLine,
		ADCPath:          hal.DefaultADCPath,
		ADCMax:           hal.DefaultADCMax,

		WatchdogDevice: watchdog.DefaultDevice,
		BootStatusPath: watchdog.DefaultBootStatusPath,
		MirrorPath:     watchdog.DefaultMirrorPath,

		TickMs:              64,
		SampleIntervalTicks: uint8(p.SampleInterval),
		CoolTimeTicks:       uint8(p.CoolTime),
		HotThreshold:        p.HotThreshold,
		CoolThreshold:       p.CoolThreshold,
		BootFanTicks:        uint8(p.BootFanTicks),
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error: the defaults are returned, so the daemon runs unconfigured
// on the reference wiring.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks internal consistency.
func (c Config) Validate() error {
	if c.TickMs <= 0 {
		return fmt.Errorf("tick_ms must be positive, got %d", c.TickMs)
	}
	if c.HotThreshold >= c.CoolThreshold {
		return fmt.Errorf("hot_threshold (%d) must be below cool_threshold (%d)",
			c.HotThreshold, c.CoolThreshold)
	}
	if c.SampleIntervalTicks == 0 {
		return errors.New("sample_interval_ticks must be positive")
	}
	if c.CoolTimeTicks == 0 {
		return errors.New("cool_time_ticks must be positive")
	}
	if c.BootFanTicks >= c.CoolTimeTicks {
		return fmt.Errorf("boot_fan_ticks (%d) must be below cool_time_ticks (%d)",
			c.BootFanTicks, c.CoolTimeTicks)
	}
	if c.ADCMax <= 0 {
		return fmt.Errorf("adc_max must be positive, got %d", c.ADCMax)
	}
	if c.FanLine == c.ButtonLine || c.FanLine == c.SensorSupplyLine || c.ButtonLine == c.SensorSupplyLine {
		return errors.New("fan_line, button_line and sensor_supply_line must be distinct")
	}
	return nil
}

// Tick returns the loop period.
func (c Config) Tick() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// Params returns the control loop tuning.
func (c Config) Params() logic.Params {
	return logic.Params{
		SampleInterval: logic.Tick(c.SampleIntervalTicks),
		CoolTime:       logic.Tick(c.CoolTimeTicks),
		HotThreshold:   c.HotThreshold,
		CoolThreshold:  c.CoolThreshold,
		BootFanTicks:   logic.Tick(c.BootFanTicks),
	}
}
