package mcu

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"movingcar/core"
)

// fakePort hands out one chunk per Read. An empty chunk is an idle read
// timeout, reported the way tarm/serial does: (0, io.EOF). Once the chunks
// run out it calls done, or fails with err when set.
type fakePort struct {
	chunks []string
	done   func()
	err    error
	idle   int
	closed bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.chunks) == 0 {
		if p.err != nil {
			return 0, p.err
		}
		if p.done != nil {
			p.done()
		}
		return 0, io.EOF
	}
	c := p.chunks[0]
	p.chunks = p.chunks[1:]
	if c == "" {
		p.idle++
		return 0, io.EOF
	}
	return copy(b, c), nil
}

func (p *fakePort) Write(b []byte) (int, error) { return len(b), nil }
func (p *fakePort) Close() error                { p.closed = true; return nil }

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		kind Kind
		tag  string
		evt  core.Event
	}{
		{"[CAR] ready, press start", KindLog, "CAR", core.Event{}},
		{"plain output", KindLog, "", core.Event{}},
		{"[EVENT] === Event Ring Dump ===", KindDumpStart, "EVENT", core.Event{}},
		{"[EVENT] === End Dump ===\r", KindDumpEnd, "EVENT", core.Event{}},
		{"[EVENT] MANEUVER tick=3 v1=1 v2=0", KindEvent, "EVENT", core.Event{Type: core.EvtManeuver, Tick: 3, Value1: 1}},
		{"[EVENT] FAULT! tick=9 v1=1 v2=2", KindEvent, "EVENT", core.Event{Type: core.EvtFault, Tick: 9, Value1: 1, Value2: 2}},
		{"[EVENT] BOGUS tick=1 v1=0 v2=0", KindLog, "EVENT", core.Event{}},
		{"[EVENT] WRAP tick=300 v1=2 v2=0", KindLog, "EVENT", core.Event{}},
	}

	for _, tt := range tests {
		rec := ParseLine(tt.line)
		if rec.Kind != tt.kind {
			t.Errorf("%q: expected kind %d, got %d", tt.line, tt.kind, rec.Kind)
		}
		if rec.Tag != tt.tag {
			t.Errorf("%q: expected tag %q, got %q", tt.line, tt.tag, rec.Tag)
		}
		if rec.Event != tt.evt {
			t.Errorf("%q: expected event %+v, got %+v", tt.line, tt.evt, rec.Event)
		}
	}
}

func TestFollowCollectsDump(t *testing.T) {
	log := strings.Join([]string{
		"[CAR] ready, press start",
		"[EVENT] === Event Ring Dump ===",
		"[EVENT] STATE tick=0 v1=0 v2=1",
		"[EVENT] MANEUVER tick=3 v1=1 v2=0",
		"[EVENT] ABORT! tick=5 v1=0 v2=0",
		"[EVENT] === End Dump ===",
		"",
	}, "\r\n")

	m := NewMCU()
	if err := m.Follow(context.Background(), func(Record) {}); err == nil {
		t.Error("expected error before a port is attached")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	port := &fakePort{chunks: []string{log}, done: cancel}
	m.Attach(port)

	var records []Record
	if err := m.Follow(ctx, func(r Record) { records = append(records, r) }); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("expected 6 records, got %d", len(records))
	}

	events := m.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 dumped events, got %d", len(events))
	}
	if events[2].Type != core.EvtAbort {
		t.Errorf("expected last event ABORT!, got %s", core.EventName(events[2].Type))
	}

	if err := m.Close(); err != nil || !port.closed || m.IsConnected() {
		t.Error("Close did not release the port")
	}
}

func TestFollowSurvivesIdleTimeouts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	port := &fakePort{
		chunks: []string{"[CAR] rea", "", "dy\r\n", "", "", "[SEQ] state stopped -> running\r\n"},
		done:   cancel,
	}
	m := NewMCU()
	m.Attach(port)

	var texts []string
	if err := m.Follow(ctx, func(r Record) { texts = append(texts, r.Text) }); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if port.idle != 3 {
		t.Errorf("expected 3 idle reads, got %d", port.idle)
	}
	want := []string{"ready", "state stopped -> running"}
	if len(texts) != len(want) {
		t.Fatalf("expected %q, got %q", want, texts)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], texts[i])
		}
	}
}

func TestFollowReportsPortFailure(t *testing.T) {
	failure := errors.New("device unplugged")
	m := NewMCU()
	m.Attach(&fakePort{chunks: []string{"[CAR] ready\n"}, err: failure})

	lines := 0
	err := m.Follow(context.Background(), func(Record) { lines++ })
	if !errors.Is(err, failure) {
		t.Errorf("expected the port error, got %v", err)
	}
	if lines != 1 {
		t.Errorf("expected 1 line before the failure, got %d", lines)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		evt  core.Event
		want string
	}{
		{core.Event{Type: core.EvtStateChange, Tick: 0, Value1: 0, Value2: 1}, "STATE tick=0 stopped -> running"},
		{core.Event{Type: core.EvtManeuver, Tick: 3, Value1: 1}, "MANEUVER tick=3 long_side"},
		{core.Event{Type: core.EvtScheduleWrap, Tick: 19, Value1: 2}, "WRAP tick=19 to 2"},
		{core.Event{Type: core.EvtFault, Tick: 4, Value1: 1, Value2: 1}, "FAULT! tick=4 car: nok"},
		{core.Event{Type: core.EvtAbort, Tick: 7}, "ABORT! tick=7"},
		{core.Event{Type: core.EvtPWMDone, Tick: 9, Value1: 1, Value2: 6}, "PWM_DONE tick=9 long_side x6"},
	}
	for _, tt := range tests {
		if got := Describe(tt.evt); got != tt.want {
			t.Errorf("Describe(%+v) = %q, want %q", tt.evt, got, tt.want)
		}
	}
}
