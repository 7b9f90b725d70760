// Command fancoold drives a cooling fan from a thermistor reading and a
// manual override button, guarded by the hardware watchdog.
//
// The loop runs once per periodic tick (~64ms): kick the watchdog,
// advance the tick counter, sample the temperature when due, poll the
// button, decide the fan output, then block until the next tick. If the
// previous boot was forced by the watchdog (the loop hung), the daemon
// never enters the control loop and instead blinks the fan in a distinct
// off-2s/on-0.5s pattern forever as a visible fault signal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/fancoold/internal/config"
	"github.com/sweeney/fancoold/internal/hal"
	"github.com/sweeney/fancoold/internal/logic"
	"github.com/sweeney/fancoold/internal/status"
	"github.com/sweeney/fancoold/internal/watchdog"
)

const (
	// bootWatchdogTimeout is armed as early as possible at startup, so a
	// hang anywhere in initialization still forces a restart.
	bootWatchdogTimeout = time.Second
	// runWatchdogTimeout is the steady-state window. The loop kicks once
	// per tick, so this leaves ~30 missed ticks of slack.
	runWatchdogTimeout = 2 * time.Second
)

const defaultConfigPath = "/etc/fancoold.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Config file path")
	chip := flag.String("chip", "", "GPIO chip name (overrides config)")
	fanLine := flag.Int("pin-fan", -1, "Fan output line offset (overrides config)")
	buttonLine := flag.Int("pin-button", -1, "Button input line offset (overrides config)")
	supplyLine := flag.Int("pin-supply", -1, "Sensor supply line offset (overrides config)")
	adcPath := flag.String("adc", "", "Sysfs ADC raw value path (overrides config)")
	tick := flag.Duration("tick", 0, "Loop tick period (overrides config)")
	noWatchdog := flag.Bool("no-watchdog", false, "Disable the hardware watchdog (bench use only)")
	printState := flag.Bool("print-state", false, "Read the sensor and button once, print state and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	applyOverrides(&cfg, overrides{
		chip:       *chip,
		fanLine:    *fanLine,
		buttonLine: *buttonLine,
		supplyLine: *supplyLine,
		adcPath:    *adcPath,
		tick:       *tick,
		noWatchdog: *noWatchdog,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// overrides carries the flag values that replace config file settings.
// Zero values ("" / negative / 0) mean "not set".
type overrides struct {
	chip       string
	fanLine    int
	buttonLine int
	supplyLine int
	adcPath    string
	tick       time.Duration
	noWatchdog bool
}

func applyOverrides(cfg *config.Config, o overrides) {
	if o.chip != "" {
		cfg.Chip = o.chip
	}
	if o.fanLine >= 0 {
		cfg.FanLine = o.fanLine
	}
	if o.buttonLine >= 0 {
		cfg.ButtonLine = o.buttonLine
	}
	if o.supplyLine >= 0 {
		cfg.SensorSupplyLine = o.supplyLine
	}
	if o.adcPath != "" {
		cfg.ADCPath = o.adcPath
	}
	if o.tick > 0 {
		cfg.TickMs = int(o.tick / time.Millisecond)
	}
	if o.noWatchdog {
		cfg.WatchdogDevice = ""
	}
}

func run(cfg config.Config, printState bool) error {
	// Startup hook: capture the reset cause and arm a short watchdog
	// before anything else has a chance to hang. The capture is not
	// fatal — a missing bootstatus file reads as a clean boot.
	var cause uint8
	if cfg.WatchdogDevice != "" {
		c, err := watchdog.CaptureResetCause(cfg.BootStatusPath, cfg.MirrorPath)
		if err != nil {
			log.Printf("reset-cause capture failed: %v", err)
		} else {
			cause = c
		}
	}

	var wd watchdog.Watchdog
	if cfg.WatchdogDevice != "" {
		real, err := watchdog.NewReal(cfg.WatchdogDevice)
		if err != nil {
			return fmt.Errorf("open watchdog: %w", err)
		}
		if err := real.Arm(bootWatchdogTimeout); err != nil {
			real.Close()
			return fmt.Errorf("arm watchdog: %w", err)
		}
		wd = real
	} else {
		log.Printf("watchdog disabled: hangs will not force a restart")
		wd = noopWatchdog{}
	}
	defer wd.Close()

	// Initialize hardware
	hw, err := hal.NewReal(cfg.Chip, cfg.FanLine, cfg.ButtonLine, cfg.SensorSupplyLine, cfg.ADCPath, cfg.ADCMax)
	if err != nil {
		return fmt.Errorf("init hardware: %w", err)
	}
	defer hw.Close()

	tracker := status.NewTracker(time.Now(), cause, status.Config{
		Chip:          cfg.Chip,
		TickMs:        cfg.TickMs,
		HotThreshold:  cfg.HotThreshold,
		CoolThreshold: cfg.CoolThreshold,
		CoolTimeTicks: cfg.CoolTimeTicks,
	})

	// Print state mode
	if printState {
		val, err := hw.ReadSensor()
		if err != nil {
			return fmt.Errorf("read sensor: %w", err)
		}
		tracker.RecordSample(val)
		pressed, err := hw.ButtonPressed()
		if err != nil {
			return fmt.Errorf("read button: %w", err)
		}
		fmt.Printf("sensor: %d (hot < %d, cool > %d), button: %s\n",
			val, cfg.HotThreshold, cfg.CoolThreshold, pressedString(pressed))
		fmt.Printf("%s\n", status.FormatJSON(tracker.Snapshot(), watchdog.CausedReboot(cause)))
		return nil
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Diagnostic path: the previous run hung and the watchdog fired.
	// Never resume normal operation; blink the fan forever so the fault
	// is visible at the bench. Only a signal exits.
	if watchdog.CausedReboot(cause) {
		log.Printf("previous reset forced by watchdog (cause %#02x); entering diagnostic blink loop", cause)
		log.Printf("state: %s", status.FormatJSON(tracker.Snapshot(), true))
		return blinkLoop(hw, wd, time.Sleep, sigCh)
	}

	// Startup survived; widen the watchdog window for steady-state.
	if err := wd.Arm(runWatchdogTimeout); err != nil {
		return fmt.Errorf("re-arm watchdog: %w", err)
	}

	ctrl := logic.New(cfg.Params())
	ticker := time.NewTicker(cfg.Tick())
	defer ticker.Stop()

	log.Printf("started: tick=%v sample=%d ticks cool=%d ticks thresholds=%d/%d cause=%#02x",
		cfg.Tick(), cfg.SampleIntervalTicks, cfg.CoolTimeTicks,
		cfg.HotThreshold, cfg.CoolThreshold, cause)

	return runLoop(hw, wd, ctrl, tracker, ticker.C, sigCh)
}

// runLoop is the control loop. One iteration per tick; between ticks the
// goroutine blocks in select, which is the idle state on a hosted OS.
func runLoop(hw hal.Hardware, wd watchdog.Watchdog, ctrl *logic.Controller, tracker *status.Tracker, tick <-chan time.Time, sig <-chan os.Signal) error {
	var lastFan, haveFan bool

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			if err := hw.SetFan(false); err != nil {
				log.Printf("fan off on shutdown: %v", err)
			}
			return nil

		case <-tick:
			// Service the watchdog first: a kick failure means the
			// device is gone and a forced restart is imminent anyway.
			if err := wd.Kick(); err != nil {
				return fmt.Errorf("watchdog kick: %w", err)
			}
			ctrl.Advance()

			if ctrl.NeedSample() {
				val, err := hw.ReadSensor()
				if err != nil {
					// Retried next tick: NeedSample stays true until a
					// sample is actually applied.
					log.Printf("sensor read error: %v", err)
				} else {
					wasHot := ctrl.Hot()
					ctrl.ApplySample(val)
					tracker.RecordSample(val)
					if ctrl.Hot() != wasHot {
						log.Printf("thermal: hot=%v (reading %d)", ctrl.Hot(), val)
					}
				}
			}

			pressed, err := hw.ButtonPressed()
			if err != nil {
				log.Printf("button read error: %v", err)
			} else if ctrl.ApplyButton(pressed) {
				log.Printf("override: %s", ctrl.CurrentOverride())
			}

			fan := ctrl.Decide()
			if err := hw.SetFan(fan); err != nil {
				log.Printf("fan write error: %v", err)
			} else {
				if !haveFan || fan != lastFan {
					log.Printf("fan: %s", onOff(fan))
				}
				lastFan, haveFan = fan, true
			}

			tracker.Update(ctrl.Now(), ctrl.Hot(), ctrl.CurrentOverride(), fan)
		}
	}
}

// noopWatchdog stands in when the watchdog device is disabled in config.
type noopWatchdog struct{}

func (noopWatchdog) Arm(time.Duration) error { return nil }
func (noopWatchdog) Kick() error             { return nil }
func (noopWatchdog) Close() error            { return nil }

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

func pressedString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}
