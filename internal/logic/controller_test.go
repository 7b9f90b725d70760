package logic

import "testing"

// step runs one loop iteration: advance the tick, optionally apply a
// sample, feed the button level, and return the fan decision.
func step(c *Controller, sample *uint8, pressed bool) bool {
	c.Advance()
	if sample != nil {
		c.ApplySample(*sample)
	}
	c.ApplyButton(pressed)
	return c.Decide()
}

func u8(v uint8) *uint8 { return &v }

func TestAgeWrapsCorrectly(t *testing.T) {
	tests := []struct {
		now, since, want Tick
	}{
		{10, 5, 5},
		{2, 254, 4},
		{0, 255, 1},
		{255, 0, 255},
		{128, 129, 255},
		{5, 5, 0},
	}
	for _, tt := range tests {
		if got := Age(tt.now, tt.since); got != tt.want {
			t.Errorf("Age(%d, %d) = %d, want %d", tt.now, tt.since, got, tt.want)
		}
	}
}

func TestOverrideCycle(t *testing.T) {
	o := OverrideNone
	want := []Override{OverrideOn, OverrideOff, OverrideNone, OverrideOn, OverrideOff, OverrideNone}
	for i, w := range want {
		o = o.Next()
		if o != w {
			t.Errorf("press %d: override = %v, want %v", i+1, o, w)
		}
	}
}

func TestBootGracePeriod(t *testing.T) {
	p := DefaultParams()
	c := New(p)

	// Fan must stay on for BootFanTicks even when every sample reads cold.
	cold := u8(p.CoolThreshold + 10)
	for i := Tick(1); i < p.BootFanTicks; i++ {
		if fan := step(c, cold, false); !fan {
			t.Fatalf("tick %d: fan off during boot grace period", i)
		}
	}

	// One more tick ends the grace window.
	if fan := step(c, cold, false); fan {
		t.Errorf("tick %d: fan still on after boot grace period", p.BootFanTicks)
	}
}

func TestHysteresisDeadBand(t *testing.T) {
	p := DefaultParams()
	c := New(p)

	// Go hot.
	c.Advance()
	c.ApplySample(p.HotThreshold - 1)
	if !c.Hot() {
		t.Fatal("expected hot after sample below HotThreshold")
	}

	// Dead-band values must not flip the state.
	for v := p.HotThreshold; v <= p.CoolThreshold; v++ {
		c.Advance()
		c.ApplySample(v)
		if !c.Hot() {
			t.Errorf("sample %d (dead-band): hot flipped to false", v)
		}
	}

	// A reading above CoolThreshold clears it.
	c.Advance()
	c.ApplySample(p.CoolThreshold + 1)
	if c.Hot() {
		t.Error("expected cool after sample above CoolThreshold")
	}

	// And dead-band values keep it cool on the way back.
	for v := p.CoolThreshold; v >= p.HotThreshold; v-- {
		c.Advance()
		c.ApplySample(v)
		if c.Hot() {
			t.Errorf("sample %d (dead-band): hot flipped to true", v)
		}
	}
}

func TestCoolDownWindow(t *testing.T) {
	p := DefaultParams()
	c := New(p)

	// Burn through the boot grace period reading cold.
	cold := u8(p.CoolThreshold + 10)
	for i := Tick(0); i <= p.BootFanTicks; i++ {
		step(c, cold, false)
	}
	if c.FanOn() {
		t.Fatal("fan should be off before the hot phase")
	}

	// Read hot once.
	step(c, u8(p.HotThreshold-1), false)
	if !c.FanOn() {
		t.Fatal("fan should turn on when hot")
	}
	hotTick := c.Now()

	// Back to cold: the fan must stay on for CoolTime ticks after the
	// last hot reading, then drop.
	step(c, cold, false)
	for c.FanOn() {
		step(c, nil, false)
		if Age(c.Now(), hotTick) > p.CoolTime {
			t.Fatalf("fan still on %d ticks after last hot reading", Age(c.Now(), hotTick))
		}
	}
	if got := Age(c.Now(), hotTick); got != p.CoolTime {
		t.Errorf("fan turned off after %d ticks, want %d", got, p.CoolTime)
	}
}

func TestCoolDownSpansCounterWrap(t *testing.T) {
	p := DefaultParams()
	c := New(p)

	// Walk the counter close to wrap while hot.
	hot := u8(p.HotThreshold - 1)
	for i := 0; i < 250; i++ {
		step(c, hot, false)
	}
	if !c.FanOn() {
		t.Fatal("fan should be on while hot")
	}
	hotTick := c.Now()

	// Cool down across the wrap boundary.
	cold := u8(p.CoolThreshold + 10)
	step(c, cold, false)
	for Age(c.Now(), hotTick) < p.CoolTime-1 {
		if fan := step(c, nil, false); !fan {
			t.Fatalf("fan off %d ticks after last hot reading (wrap)", Age(c.Now(), hotTick))
		}
	}
	if fan := step(c, nil, false); fan {
		t.Errorf("fan still on %d ticks after last hot reading (wrap)", Age(c.Now(), hotTick))
	}
}

func TestOverrideForcesOutput(t *testing.T) {
	p := DefaultParams()
	c := New(p)

	// Cold and past the boot grace: automatic says off.
	cold := u8(p.CoolThreshold + 10)
	for i := Tick(0); i <= p.BootFanTicks; i++ {
		step(c, cold, false)
	}

	// Press 1: ON. Fan on regardless of temperature.
	step(c, nil, true)
	if c.CurrentOverride() != OverrideOn {
		t.Fatalf("override = %v, want ON", c.CurrentOverride())
	}
	if !c.FanOn() {
		t.Error("override ON: fan should be on while cold")
	}

	// Held button is not a new press.
	step(c, nil, true)
	if c.CurrentOverride() != OverrideOn {
		t.Errorf("held button changed override to %v", c.CurrentOverride())
	}

	// Release, press 2: OFF. Force off even while hot.
	step(c, nil, false)
	step(c, u8(p.HotThreshold-1), true)
	if c.CurrentOverride() != OverrideOff {
		t.Fatalf("override = %v, want OFF", c.CurrentOverride())
	}
	if c.FanOn() {
		t.Error("override OFF: fan should be off even while hot")
	}

	// Release, press 3: back to automatic. Hot, so fan on.
	step(c, nil, false)
	step(c, nil, true)
	if c.CurrentOverride() != OverrideNone {
		t.Fatalf("override = %v, want NONE", c.CurrentOverride())
	}
	if !c.FanOn() {
		t.Error("automatic: fan should be on while hot")
	}
}

func TestOverrideReleaseRewindsCoolDown(t *testing.T) {
	p := DefaultParams()
	c := New(p)

	// Get hot, then cool, then immediately cycle the override all the way
	// around while still inside the cool-down window.
	step(c, u8(p.HotThreshold-1), false)
	step(c, u8(p.CoolThreshold+10), false)

	step(c, nil, true) // ON
	step(c, nil, false)
	step(c, nil, true) // OFF
	step(c, nil, false)
	step(c, nil, true) // NONE, not hot: lastHot rewound

	// The stale cool-down window must not keep the fan on.
	if fan := step(c, nil, false); fan {
		t.Error("fan on after override release: stale cool-down window not rewound")
	}
}

func TestSampleSpacing(t *testing.T) {
	p := DefaultParams()
	c := New(p)

	// lastMeasure starts at 0, so the first sample lands at tick
	// SampleInterval and every one after that is exactly one interval out.
	sampled := []Tick{}
	for i := 0; i < 100; i++ {
		c.Advance()
		if c.NeedSample() {
			c.ApplySample(p.CoolThreshold + 10)
			sampled = append(sampled, c.Now())
		}
		c.ApplyButton(false)
		c.Decide()
	}

	if len(sampled) < 2 {
		t.Fatalf("expected at least 2 samples in 100 ticks, got %d", len(sampled))
	}
	for i := 1; i < len(sampled); i++ {
		if got := Age(sampled[i], sampled[i-1]); got != p.SampleInterval {
			t.Errorf("samples %d ticks apart, want %d", got, p.SampleInterval)
		}
	}
}

func TestHotRefreshesWhileHot(t *testing.T) {
	p := DefaultParams()
	c := New(p)

	// Stay hot for longer than CoolTime: the window must keep refreshing
	// and the fan must never drop.
	hot := u8(p.HotThreshold - 1)
	for i := 0; i < int(p.CoolTime)*3; i++ {
		if fan := step(c, hot, false); !fan {
			t.Fatalf("tick %d: fan off while continuously hot", i)
		}
	}
}
