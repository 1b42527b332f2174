package core

import "strconv"

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a sequencing event for post-mortem analysis
type Event struct {
	Type   uint8 // Event type code
	Tick   uint8 // Delay tick when the event was recorded
	Value1 uint8 // Context-dependent value
	Value2 uint8 // Context-dependent value
}

// Event type codes
const (
	EvtStateChange  = 1 // Value1 = old state, Value2 = new state
	EvtManeuver     = 2 // Value1 = maneuver
	EvtAbort        = 3 // External interrupt fired
	EvtScheduleWrap = 4 // Schedule exhausted, Value1 = wrap target
	EvtFault        = 5 // Collaborator error, Value1 = source, Value2 = status
	EvtPWMDone      = 6 // Maneuver left, Value1 = maneuver, Value2 = duty windows run
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var eventNames = [...]string{
	EvtStateChange:  "STATE",
	EvtManeuver:     "MANEUVER",
	EvtAbort:        "ABORT!",
	EvtScheduleWrap: "WRAP",
	EvtFault:        "FAULT!",
	EvtPWMDone:      "PWM_DONE",
}

// EventName returns the name an event is dumped under
func EventName(t uint8) string {
	if int(t) < len(eventNames) && eventNames[t] != "" {
		return eventNames[t]
	}
	return "UNKNOWN"
}

// EventType is the inverse of EventName
func EventType(name string) (uint8, bool) {
	for t, n := range eventNames {
		if n != "" && n == name {
			return uint8(t), true
		}
	}
	return 0, false
}

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event ring buffer (non-blocking, for post-mortem)
	eventRing     [EventRingSize]Event
	eventRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, stdout, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordEvent captures an event in the ring buffer. Safe from interrupt context.
func RecordEvent(eventType, tick, value1, value2 uint8) {
	state := disableInterrupts()
	idx := eventRingHead
	eventRing[idx] = Event{
		Type:   eventType,
		Tick:   tick,
		Value1: value1,
		Value2: value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
	restoreInterrupts(state)
}

// Events returns the recorded events, oldest first
func Events() []Event {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	out := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Type == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// DumpEvents outputs the event ring buffer (call on shutdown/error)
func DumpEvents() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENT] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[EVENT] " + EventName(evt.Type) +
			" tick=" + strconv.Itoa(int(evt.Tick)) +
			" v1=" + strconv.Itoa(int(evt.Value1)) +
			" v2=" + strconv.Itoa(int(evt.Value2)))
	}
	debugPrintln("[EVENT] === End Dump ===")
}

// ClearEvents clears the event buffer
func ClearEvents() {
	state := disableInterrupts()
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
	restoreInterrupts(state)
}
