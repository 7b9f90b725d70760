package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for -print-state output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Fan           string     `json:"fan"`
	Hot           bool       `json:"hot"`
	Override      string     `json:"override"`
	Tick          uint8      `json:"tick"`
	Samples       uint64     `json:"samples"`
	LastReading   *uint8     `json:"last_reading,omitempty"`
	ResetCause    uint8      `json:"reset_cause"`
	WatchdogReset bool       `json:"watchdog_reset"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Config        ConfigJSON `json:"config"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Chip          string `json:"chip"`
	TickMs        int    `json:"tick_ms"`
	HotThreshold  uint8  `json:"hot_threshold"`
	CoolThreshold uint8  `json:"cool_threshold"`
	CoolTimeTicks uint8  `json:"cool_time_ticks"`
}

func buildInner(snap Snapshot, watchdogReset bool) StatusInner {
	fan := "OFF"
	if snap.FanOn {
		fan = "ON"
	}

	inner := StatusInner{
		Fan:           fan,
		Hot:           snap.Hot,
		Override:      snap.Override.String(),
		Tick:          uint8(snap.Tick),
		Samples:       snap.Samples,
		ResetCause:    snap.ResetCause,
		WatchdogReset: watchdogReset,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Config: ConfigJSON{
			Chip:          snap.Config.Chip,
			TickMs:        snap.Config.TickMs,
			HotThreshold:  snap.Config.HotThreshold,
			CoolThreshold: snap.Config.CoolThreshold,
			CoolTimeTicks: snap.Config.CoolTimeTicks,
		},
	}
	if snap.HaveReading {
		v := snap.LastReading
		inner.LastReading = &v
	}
	return inner
}

// FormatJSON returns the indented JSON status for -print-state output.
func FormatJSON(snap Snapshot, watchdogReset bool) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap, watchdogReset)}, "", "  ")
	return data
}
