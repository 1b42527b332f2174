// Command carsim runs the car firmware against a simulated AVR and prints
// what the car does.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"movingcar/core"
	"movingcar/sequencer"
	"movingcar/sim"
	"movingcar/standalone"
	"movingcar/standalone/config"
)

var (
	configPath = flag.String("config", "", "Car configuration file (.json, .yaml); default pin map if empty")
	duration   = flag.Duration("duration", 12*time.Second, "Simulated time to run")
	speed      = flag.Float64("speed", 0, "Real-time factor (0 runs as fast as possible)")
	stepCycles = flag.Uint64("step-cycles", 1024, "CPU cycles per main-loop iteration")
	pressAfter = flag.Duration("press-after", 100*time.Millisecond, "Press start after this long")
	abortAfter = flag.Duration("abort-after", 0, "Pull the abort line low after this long (0 = never)")
	stopAfter  = flag.Duration("stop-after", 0, "Press stop after this long (0 = never)")
	verbose    = flag.Bool("verbose", false, "Print firmware debug output (also set by debug: true in the config)")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	core.SetDebugWriter(func(s string) { fmt.Println(s) })
	core.SetDebugEnabled(*verbose || cfg.Debug)

	manager, err := standalone.NewManagerWithConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	machine := sim.New(manager.Layout())
	if err := manager.Initialize(standalone.Hardware{Bank: machine.Bank()}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	machine.Attach(manager.Timers(), manager.Exti())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := &session{cfg: cfg, m: machine, mgr: manager}
	s.run(ctx)

	core.DumpEvents()
	fmt.Printf("simulated %s in %d cycles, %d interrupts serviced\n",
		s.now().Round(time.Millisecond), machine.Cycles(), machine.Interrupts())
}

// session drives the machine and the main loop from one goroutine.
type session struct {
	cfg *config.Config
	m   *sim.Machine
	mgr *standalone.Manager

	started time.Time
	last    standalone.CarState
	printed bool
}

func (s *session) now() time.Duration {
	return time.Duration(float64(s.m.Cycles()) / float64(s.cfg.CPUHz) * float64(time.Second))
}

func (s *session) run(ctx context.Context) {
	s.started = time.Now()
	s.m.SetInput(s.cfg.Buttons.Start, core.High)
	s.m.SetInput(s.cfg.Buttons.Stop, core.High)

	pressed, stopped, aborted := false, false, false
	for s.now() < *duration {
		if ctx.Err() != nil {
			return
		}
		t := s.now()

		s.m.SetInput(s.cfg.Buttons.Start, core.High)
		s.m.SetInput(s.cfg.Buttons.Stop, core.High)
		if !pressed && t >= *pressAfter {
			s.m.SetInput(s.cfg.Buttons.Start, core.Low)
			pressed = true
		}
		if !stopped && *stopAfter > 0 && t >= *stopAfter {
			s.m.SetInput(s.cfg.Buttons.Stop, core.Low)
			stopped = true
		}
		if !aborted && *abortAfter > 0 && t >= *abortAfter {
			s.m.Edge(s.cfg.Abort.Line, false)
			s.m.Edge(s.cfg.Abort.Line, true)
			aborted = true
		}

		s.m.Advance(*stepCycles)
		s.mgr.Step()
		s.report()
		s.pace()
	}
}

// report prints a line whenever the run state or the maneuver changes.
func (s *session) report() {
	st := s.mgr.GetState()
	if st == nil {
		return
	}
	if s.printed && st.State == s.last.State && st.Maneuver == s.last.Maneuver {
		s.last = *st
		return
	}
	s.last = *st
	s.printed = true

	line := fmt.Sprintf("[%8.3fs] %-7s", s.now().Seconds(), st.State)
	if st.State == sequencer.Running {
		line += fmt.Sprintf(" tick=%-2d %-10s", st.Delay, st.Maneuver)
	}
	line += " leds=" + s.leds() + " motors=" + s.motors()
	if st.Faults > 0 {
		line += fmt.Sprintf(" faults=%d", st.Faults)
	}
	fmt.Println(line)
}

func (s *session) leds() string {
	out := ""
	for _, led := range []struct {
		name string
		pin  core.PinRef
	}{
		{"S", s.cfg.LEDs.ShortSide},
		{"L", s.cfg.LEDs.LongSide},
		{"R", s.cfg.LEDs.Rotate},
		{"X", s.cfg.LEDs.Stop},
	} {
		if lvl, _ := s.m.Output(led.pin); lvl == core.High {
			out += led.name
		} else {
			out += "-"
		}
	}
	return out
}

func (s *session) motors() string {
	return direction(s.m, s.cfg.Motors.Left) + "/" + direction(s.m, s.cfg.Motors.Right)
}

func direction(m *sim.Machine, pins core.MotorPins) string {
	a, _ := m.Output(pins.A)
	b, _ := m.Output(pins.B)
	switch {
	case a == core.High && b == core.Low:
		return "fwd"
	case a == core.Low && b == core.High:
		return "rev"
	default:
		return "off"
	}
}

// pace holds the loop back to the requested real-time factor.
func (s *session) pace() {
	if *speed <= 0 {
		return
	}
	want := time.Duration(float64(s.now()) / *speed)
	if ahead := want - time.Since(s.started); ahead > time.Millisecond {
		time.Sleep(ahead)
	}
}
