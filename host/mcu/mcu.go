// Package mcu follows the log a car controller writes to its debug UART and
// decodes the event ring dumps in it.
package mcu

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"movingcar/core"
	"movingcar/host/serial"
	"movingcar/sequencer"
)

// Kind classifies a log line
type Kind uint8

const (
	KindLog       Kind = iota // Free-form "[TAG] text" line
	KindEvent                 // One entry of an event ring dump
	KindDumpStart             // Dump header
	KindDumpEnd               // Dump trailer
)

// Record is one decoded log line
type Record struct {
	Kind  Kind
	Tag   string // CAR, SEQ, EVENT; empty for untagged output
	Text  string // Line without its tag
	Event core.Event
}

// MCU represents a connection to a car controller
type MCU struct {
	port      serial.Port
	connected bool

	// Last complete event dump
	events  []core.Event
	pending []core.Event
	inDump  bool
}

// NewMCU creates a new MCU instance (not yet connected)
func NewMCU() *MCU {
	return &MCU{}
}

// Connect connects to a controller via serial port
func (m *MCU) Connect(device string) error {
	return m.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig connects with a custom serial config
func (m *MCU) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	m.Attach(port)
	return nil
}

// Attach uses an already open port
func (m *MCU) Attach(port serial.Port) {
	m.port = port
	m.connected = true
}

// Close closes the connection
func (m *MCU) Close() error {
	if m.port != nil {
		if err := m.port.Close(); err != nil {
			return err
		}
	}
	m.connected = false
	return nil
}

// IsConnected returns whether a port is attached
func (m *MCU) IsConnected() bool {
	return m.connected
}

// Follow reads lines until ctx ends or the port fails, handing each decoded
// record to fn. Read timeouts on the port are not errors: tarm/serial reports
// an idle timeout as a zero-byte io.EOF, so EOF only means no data yet
func (m *MCU) Follow(ctx context.Context, fn func(Record)) error {
	if !m.connected {
		return fmt.Errorf("not connected to MCU")
	}
	return m.follow(ctx, m.port, fn)
}

func (m *MCU) follow(ctx context.Context, r io.Reader, fn func(Record)) error {
	var partial strings.Builder
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			switch b {
			case '\r':
			case '\n':
				rec := ParseLine(partial.String())
				partial.Reset()
				m.track(rec)
				fn(rec)
			default:
				partial.WriteByte(b)
			}
		}
		if err == io.EOF {
			// Idle line
			continue
		}
		if err != nil {
			return fmt.Errorf("read failed: %w", err)
		}
	}
}

// track collects dump entries so Events returns the latest complete dump.
func (m *MCU) track(rec Record) {
	switch rec.Kind {
	case KindDumpStart:
		m.inDump = true
		m.pending = m.pending[:0]
	case KindEvent:
		if m.inDump {
			m.pending = append(m.pending, rec.Event)
		}
	case KindDumpEnd:
		if m.inDump {
			m.events = append([]core.Event(nil), m.pending...)
			m.inDump = false
		}
	}
}

// Events returns the entries of the last complete event dump
func (m *MCU) Events() []core.Event {
	return m.events
}

// ParseLine decodes one log line
func ParseLine(line string) Record {
	line = strings.TrimSpace(line)
	rec := Record{Kind: KindLog, Text: line}
	if !strings.HasPrefix(line, "[") {
		return rec
	}
	tag, text, ok := strings.Cut(line[1:], "]")
	if !ok {
		return rec
	}
	rec.Tag = tag
	rec.Text = strings.TrimSpace(text)
	if tag != "EVENT" {
		return rec
	}

	switch rec.Text {
	case "=== Event Ring Dump ===":
		rec.Kind = KindDumpStart
		return rec
	case "=== End Dump ===":
		rec.Kind = KindDumpEnd
		return rec
	}
	if evt, ok := parseEvent(rec.Text); ok {
		rec.Kind = KindEvent
		rec.Event = evt
	}
	return rec
}

// parseEvent decodes "NAME tick=N v1=N v2=N".
func parseEvent(text string) (core.Event, bool) {
	fields := strings.Fields(text)
	if len(fields) != 4 {
		return core.Event{}, false
	}
	typ, ok := core.EventType(fields[0])
	if !ok {
		return core.Event{}, false
	}
	evt := core.Event{Type: typ}
	for _, f := range fields[1:] {
		key, val, ok := strings.Cut(f, "=")
		if !ok {
			return core.Event{}, false
		}
		n, err := strconv.ParseUint(val, 10, 8)
		if err != nil {
			return core.Event{}, false
		}
		switch key {
		case "tick":
			evt.Tick = uint8(n)
		case "v1":
			evt.Value1 = uint8(n)
		case "v2":
			evt.Value2 = uint8(n)
		default:
			return core.Event{}, false
		}
	}
	return evt, true
}

// Describe renders an event with its values decoded
func Describe(e core.Event) string {
	name := core.EventName(e.Type)
	switch e.Type {
	case core.EvtStateChange:
		return fmt.Sprintf("%s tick=%d %s -> %s", name, e.Tick,
			sequencer.RunState(e.Value1), sequencer.RunState(e.Value2))
	case core.EvtManeuver:
		return fmt.Sprintf("%s tick=%d %s", name, e.Tick, sequencer.Maneuver(e.Value1))
	case core.EvtPWMDone:
		return fmt.Sprintf("%s tick=%d %s x%d", name, e.Tick, sequencer.Maneuver(e.Value1), e.Value2)
	case core.EvtScheduleWrap:
		return fmt.Sprintf("%s tick=%d to %d", name, e.Tick, e.Value1)
	case core.EvtFault:
		return fmt.Sprintf("%s tick=%d %s: %s", name, e.Tick,
			sequencer.FaultSource(e.Value1), core.Status(e.Value2))
	default:
		return fmt.Sprintf("%s tick=%d", name, e.Tick)
	}
}
