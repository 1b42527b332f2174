package config

import (
	"encoding/json"
	"time"

	"movingcar/core"
	"movingcar/sequencer"
)

// Config is the complete board configuration of the car.
type Config struct {
	Board string `json:"board" yaml:"board"` // "atmega32" or "atmega328p"
	CPUHz uint32 `json:"cpu_hz" yaml:"cpu_hz"`

	LEDs    LEDPins    `json:"leds" yaml:"leds"`
	Buttons ButtonPins `json:"buttons" yaml:"buttons"`
	Motors  MotorPins  `json:"motors" yaml:"motors"`

	PWMTimer   TimerConfig `json:"pwm_timer" yaml:"pwm_timer"`
	DelayTimer TimerConfig `json:"delay_timer" yaml:"delay_timer"`
	Abort      AbortConfig `json:"abort" yaml:"abort"`

	Sequencer sequencer.Config `json:"sequencer" yaml:"sequencer"`

	Debug bool `json:"debug" yaml:"debug"` // Route debug output to the console
}

// LEDPins assigns the four maneuver indicators
type LEDPins struct {
	ShortSide core.PinRef `json:"short_side" yaml:"short_side"`
	LongSide  core.PinRef `json:"long_side" yaml:"long_side"`
	Stop      core.PinRef `json:"stop" yaml:"stop"`
	Rotate    core.PinRef `json:"rotate" yaml:"rotate"`
}

// ButtonPins assigns the start and stop buttons
type ButtonPins struct {
	Start    core.PinRef   `json:"start" yaml:"start"`
	Stop     core.PinRef   `json:"stop" yaml:"stop"`
	Debounce core.Debounce `json:"debounce" yaml:"debounce"`
}

// MotorPins assigns the H-bridge inputs of both wheels
type MotorPins struct {
	Left  core.MotorPins `json:"left" yaml:"left"`
	Right core.MotorPins `json:"right" yaml:"right"`
}

// TimerConfig selects a hardware timer and its reload value
type TimerConfig struct {
	ID      core.TimerID `json:"id" yaml:"id"`
	Initial uint16       `json:"initial" yaml:"initial"` // Count reloaded after each overflow
	Clock   core.Clock   `json:"clock" yaml:"clock"`
}

// AbortConfig selects the emergency-stop interrupt line
type AbortConfig struct {
	Line core.ExtiLine `json:"line" yaml:"line"`
	Edge core.Edge     `json:"edge" yaml:"edge"`
}

// LoadConfig parses a JSON configuration. Fields missing from the document
// keep their Default values.
func LoadConfig(jsonData []byte) (*Config, error) {
	config := Default()

	err := json.Unmarshal(jsonData, config)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	applyDefaults(config)

	return config, nil
}

// applyDefaults fills in values that were explicitly zeroed
func applyDefaults(config *Config) {
	if config.Board == "" {
		config.Board = "atmega32"
	}
	if config.CPUHz == 0 {
		config.CPUHz = 8000000 // 8 MHz internal RC
	}
	if config.PWMTimer.Clock == core.ClockNone {
		config.PWMTimer.Clock = core.ClockDiv1024
	}
	if config.DelayTimer.Clock == core.ClockNone {
		config.DelayTimer.Clock = core.ClockDiv1024
	}

	// Debounce
	if config.Buttons.Debounce.CheckingTime == 0 {
		config.Buttons.Debounce.CheckingTime = core.DefaultDebounce.CheckingTime
	}
	if config.Buttons.Debounce.Threshold == 0 {
		config.Buttons.Debounce.Threshold = core.DefaultDebounce.Threshold
	}

	// Itinerary
	seq := &config.Sequencer
	if len(seq.Schedule) == 0 {
		seq.Schedule = sequencer.DefaultSchedule()
	}
	def := sequencer.DefaultDuties()
	if seq.Duties.LongSide.Window == 0 {
		seq.Duties.LongSide = def.LongSide
	}
	if seq.Duties.ShortSide.Window == 0 {
		seq.Duties.ShortSide = def.ShortSide
	}
	if seq.Duties.Rotate.Window == 0 {
		seq.Duties.Rotate = def.Rotate
	}
}

// Default returns the configuration of the reference car: an ATmega32 at
// 8 MHz, a 2 ms PWM tick on timer 0 and a 500 ms delay tick on timer 1.
func Default() *Config {
	return &Config{
		Board: "atmega32",
		CPUHz: 8000000,
		LEDs: LEDPins{
			ShortSide: core.PinRef{Port: core.PortA, Pin: core.Pin5},
			LongSide:  core.PinRef{Port: core.PortA, Pin: core.Pin6},
			Stop:      core.PinRef{Port: core.PortA, Pin: core.Pin7},
			Rotate:    core.PinRef{Port: core.PortB, Pin: core.Pin0},
		},
		Buttons: ButtonPins{
			Start:    core.PinRef{Port: core.PortD, Pin: core.Pin3},
			Stop:     core.PinRef{Port: core.PortD, Pin: core.Pin2}, // Shares INT0
			Debounce: core.DefaultDebounce,
		},
		Motors: MotorPins{
			Left: core.MotorPins{
				A: core.PinRef{Port: core.PortA, Pin: core.Pin3},
				B: core.PinRef{Port: core.PortA, Pin: core.Pin4},
			},
			Right: core.MotorPins{
				A: core.PinRef{Port: core.PortA, Pin: core.Pin0},
				B: core.PinRef{Port: core.PortA, Pin: core.Pin1},
			},
		},
		PWMTimer:   TimerConfig{ID: core.Timer0, Initial: 240, Clock: core.ClockDiv1024},
		DelayTimer: TimerConfig{ID: core.Timer1, Initial: 61628, Clock: core.ClockDiv1024},
		Abort:      AbortConfig{Line: core.Int0, Edge: core.EdgeFalling},
		Sequencer:  sequencer.DefaultConfig(),
	}
}

// TickPeriods returns the interval between PWM ticks and between delay ticks.
func (c *Config) TickPeriods() (pwm, delay time.Duration) {
	l, ok := core.LayoutByName(c.Board)
	if !ok {
		return 0, 0
	}
	period := func(t TimerConfig) time.Duration {
		tl := l.Timer(t.ID)
		if tl == nil {
			return 0
		}
		return time.Duration(core.OverflowPeriodNanos(c.CPUHz, t.Clock, tl.Width, t.Initial))
	}
	return period(c.PWMTimer), period(c.DelayTimer)
}
