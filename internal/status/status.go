// Package status provides a thread-safe snapshot of the control loop
// state. It is read by the -print-state mode and logged when the daemon
// enters the diagnostic path.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/fancoold/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Chip          string
	TickMs        int
	HotThreshold  uint8
	CoolThreshold uint8
	CoolTimeTicks uint8
}

// Snapshot is a point-in-time view of the loop state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Tick        logic.Tick
	Hot         bool
	Override    logic.Override
	FanOn       bool
	Samples     uint64
	LastReading uint8
	HaveReading bool
	ResetCause  uint8
	StartTime   time.Time
	Now         time.Time
	Config      Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable loop state behind an RWMutex. The loop goroutine
// writes it once per tick; other goroutines only read snapshots.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time, reset cause and
// config summary.
func NewTracker(startTime time.Time, resetCause uint8, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime:  startTime,
			ResetCause: resetCause,
			Config:     cfg,
		},
	}
}

// Update sets the loop state. Called once per tick.
func (t *Tracker) Update(tick logic.Tick, hot bool, override logic.Override, fanOn bool) {
	t.mu.Lock()
	t.snap.Tick = tick
	t.snap.Hot = hot
	t.snap.Override = override
	t.snap.FanOn = fanOn
	t.mu.Unlock()
}

// RecordSample notes a completed sensor reading.
func (t *Tracker) RecordSample(val uint8) {
	t.mu.Lock()
	t.snap.Samples++
	t.snap.LastReading = val
	t.snap.HaveReading = true
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the loop state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
