package config

import (
	"fmt"

	"movingcar/core"
)

// Validate checks configuration correctness against the board's register
// layout. It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	layout, ok := core.LayoutByName(cfg.Board)
	if !ok {
		return fmt.Errorf("board %q: unknown part", cfg.Board)
	}
	if cfg.CPUHz == 0 {
		return fmt.Errorf("cpu_hz must be set")
	}

	// ------------------------------------------------------------
	// PIN MAP
	// ------------------------------------------------------------

	pins := []struct {
		name string
		pin  core.PinRef
	}{
		{"leds.short_side", cfg.LEDs.ShortSide},
		{"leds.long_side", cfg.LEDs.LongSide},
		{"leds.stop", cfg.LEDs.Stop},
		{"leds.rotate", cfg.LEDs.Rotate},
		{"buttons.start", cfg.Buttons.Start},
		{"buttons.stop", cfg.Buttons.Stop},
		{"motors.left.a", cfg.Motors.Left.A},
		{"motors.left.b", cfg.Motors.Left.B},
		{"motors.right.a", cfg.Motors.Right.A},
		{"motors.right.b", cfg.Motors.Right.B},
	}

	owner := make(map[core.PinRef]string)
	for _, p := range pins {
		if !layout.HasPin(p.pin) {
			return fmt.Errorf("%s: pin %s does not exist on %s", p.name, p.pin, layout.Name)
		}
		if prev, exists := owner[p.pin]; exists {
			return fmt.Errorf("pin %s used by both %s and %s", p.pin, prev, p.name)
		}
		owner[p.pin] = p.name
	}

	d := cfg.Buttons.Debounce
	if d.Threshold > d.CheckingTime+1 {
		return fmt.Errorf(
			"buttons.debounce: threshold %d can never be reached within %d samples",
			d.Threshold,
			d.CheckingTime+1,
		)
	}

	// ------------------------------------------------------------
	// TIMERS
	// ------------------------------------------------------------

	if cfg.PWMTimer.ID == cfg.DelayTimer.ID {
		return fmt.Errorf("pwm_timer and delay_timer both use %s", cfg.PWMTimer.ID)
	}
	for _, t := range []struct {
		name string
		cfg  TimerConfig
	}{
		{"pwm_timer", cfg.PWMTimer},
		{"delay_timer", cfg.DelayTimer},
	} {
		tl := layout.Timer(t.cfg.ID)
		if tl == nil {
			return fmt.Errorf("%s: invalid timer", t.name)
		}
		if !layout.SupportsClock(t.cfg.ID, t.cfg.Clock) {
			return fmt.Errorf("%s: %s cannot run from %s", t.name, t.cfg.ID, t.cfg.Clock)
		}
		if tl.Width == 8 && t.cfg.Initial > 0xFF {
			return fmt.Errorf("%s: initial %d does not fit 8-bit %s", t.name, t.cfg.Initial, t.cfg.ID)
		}
	}

	// ------------------------------------------------------------
	// ABORT LINE
	// ------------------------------------------------------------

	if !layout.SupportsEdge(cfg.Abort.Line, cfg.Abort.Edge) {
		return fmt.Errorf("abort: %s cannot sense %s on %s", cfg.Abort.Line, cfg.Abort.Edge, layout.Name)
	}

	if err := cfg.Sequencer.Validate(); err != nil {
		return fmt.Errorf("sequencer: %w", err)
	}

	return nil
}
