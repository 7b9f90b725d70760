package main

import (
	"log"
	"os"
	"time"

	"github.com/sweeney/fancoold/internal/hal"
	"github.com/sweeney/fancoold/internal/watchdog"
)

const (
	// diagOffTime / diagOnTime define the blink pattern: long off, short
	// on. Distinct from any pattern normal operation produces.
	diagOffTime = 2 * time.Second
	diagOnTime  = 500 * time.Millisecond

	// diagKickInterval keeps the watchdog serviced throughout each blink
	// phase so it does not fire again mid-pattern.
	diagKickInterval = 50 * time.Millisecond
)

// blinkLoop is the terminal diagnostic path after a watchdog-forced
// reset: fan off for ~2s, on for ~0.5s, forever. It is a fault beacon,
// not a recovery attempt — the loop never hands control back to normal
// operation. A signal is the only exit (the bare-metal equivalent had
// none). The sleep function is injected so tests can run the loop
// without real time passing.
func blinkLoop(hw hal.Hardware, wd watchdog.Watchdog, sleep func(time.Duration), sig <-chan os.Signal) error {
	for {
		if err := hw.SetFan(false); err != nil {
			log.Printf("diag fan off: %v", err)
		}
		if s, done := kickWait(wd, sleep, sig, diagOffTime); done {
			return diagShutdown(hw, s)
		}

		if err := hw.SetFan(true); err != nil {
			log.Printf("diag fan on: %v", err)
		}
		if s, done := kickWait(wd, sleep, sig, diagOnTime); done {
			return diagShutdown(hw, s)
		}
	}
}

// kickWait waits for d in diagKickInterval slices, kicking the watchdog
// before each slice. It returns early when a signal arrives.
func kickWait(wd watchdog.Watchdog, sleep func(time.Duration), sig <-chan os.Signal, d time.Duration) (os.Signal, bool) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += diagKickInterval {
		select {
		case s := <-sig:
			return s, true
		default:
		}
		if err := wd.Kick(); err != nil {
			log.Printf("diag watchdog kick: %v", err)
		}
		sleep(diagKickInterval)
	}
	return nil, false
}

func diagShutdown(hw hal.Hardware, s os.Signal) error {
	log.Printf("received %v, leaving diagnostic loop", s)
	if err := hw.SetFan(false); err != nil {
		log.Printf("fan off on shutdown: %v", err)
	}
	return nil
}
