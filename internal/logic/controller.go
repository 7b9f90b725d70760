package logic

// Controller holds the fan control loop state. It is driven once per
// loop iteration through Advance / NeedSample / ApplySample / ApplyButton /
// Decide, in that order, and never blocks. All hardware access happens
// outside this package.
type Controller struct {
	params Params

	now         Tick
	lastMeasure Tick
	lastHot     Tick

	hot           bool
	btnWasPressed bool
	override      Override
	fanOn         bool
}

// New creates a Controller at tick zero. lastHot is preloaded so the fan
// runs for params.BootFanTicks at power-on even if the first sample reads
// cold.
func New(params Params) *Controller {
	return &Controller{
		params:  params,
		lastHot: Tick(0) - params.CoolTime + params.BootFanTicks,
	}
}

// Advance consumes one periodic timer tick.
func (c *Controller) Advance() {
	c.now++
}

// NeedSample reports whether a temperature sample is due.
func (c *Controller) NeedSample() bool {
	return Age(c.now, c.lastMeasure) >= c.params.SampleInterval
}

// ApplySample feeds one raw sensor reading (0-255, lower = hotter) into
// the hysteresis comparison. The thermal state only changes outside the
// dead-band: above CoolThreshold clears hot, below HotThreshold sets it,
// in between it is left alone.
func (c *Controller) ApplySample(val uint8) {
	c.lastMeasure = c.now

	if val > c.params.CoolThreshold {
		c.hot = false
	} else if val < c.params.HotThreshold {
		c.hot = true
	}

	if c.hot {
		c.lastHot = c.now
	}
}

// ApplyButton feeds the current (raw, undebounced) button level. Polling
// at the tick rate is the debounce strategy, so only the press edge acts:
// each press cycles the override NONE -> ON -> OFF -> NONE. Returning to
// NONE while not hot rewinds lastHot so a stale cool-down window from
// before the override does not keep the fan running.
// It returns true when the override changed.
func (c *Controller) ApplyButton(pressed bool) bool {
	if pressed && !c.btnWasPressed {
		c.btnWasPressed = true
		c.override = c.override.Next()
		if c.override == OverrideNone && !c.hot {
			c.lastHot = c.now - c.params.CoolTime
		}
		return true
	}
	if !pressed && c.btnWasPressed {
		c.btnWasPressed = false
	}
	return false
}

// Decide computes the fan output for this iteration. Override modes force
// the output; in automatic mode the fan is on while hot or within the
// cool-down window after the last hot reading. When the window closes,
// lastHot is pinned to now-CoolTime so the window cannot silently
// re-trigger once the counter wraps.
func (c *Controller) Decide() bool {
	switch c.override {
	case OverrideOn:
		c.fanOn = true
	case OverrideOff:
		c.fanOn = false
	default:
		if c.hot || Age(c.now, c.lastHot) < c.params.CoolTime {
			c.fanOn = true
		} else {
			c.fanOn = false
			c.lastHot = c.now - c.params.CoolTime
		}
	}
	return c.fanOn
}

// Now returns the current tick counter value.
func (c *Controller) Now() Tick {
	return c.now
}

// Hot returns the current thermal state.
func (c *Controller) Hot() bool {
	return c.hot
}

// CurrentOverride returns the active override mode.
func (c *Controller) CurrentOverride() Override {
	return c.override
}

// FanOn returns the fan output computed by the last Decide call.
func (c *Controller) FanOn() bool {
	return c.fanOn
}
