package sequencer

import (
	"errors"
	"strings"

	"movingcar/core"
)

// Maneuver is one bounded motor/indicator behavior of the itinerary.
type Maneuver uint8

const (
	NoManeuver Maneuver = iota
	LongSide
	Stop
	Rotate
	ShortSide
	maneuverCount
)

var maneuverNames = []string{"none", "long_side", "stop", "rotate", "short_side"}

func (m Maneuver) String() string {
	if int(m) < len(maneuverNames) {
		return maneuverNames[m]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (m Maneuver) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts "long_side", "short_side", "rotate" and "stop".
func (m *Maneuver) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	s = strings.ReplaceAll(s, "-", "_")
	for i := LongSide; i < maneuverCount; i++ {
		if maneuverNames[i] == s {
			*m = i
			return nil
		}
	}
	return errors.New("unknown maneuver " + string(text))
}

// pulsed reports whether the maneuver runs a software PWM window.
func (m Maneuver) pulsed() bool {
	return m == LongSide || m == ShortSide || m == Rotate
}

// ScheduleEntry maps the delay ticks (previous Upper, Upper] to a maneuver.
// The first entry starts right after the grace period.
type ScheduleEntry struct {
	Upper    uint8    `json:"upper" yaml:"upper"`
	Maneuver Maneuver `json:"maneuver" yaml:"maneuver"`
}

// Schedule is the itinerary, in increasing Upper order.
type Schedule []ScheduleEntry

// DefaultSchedule drives a rectangle: a long side, a right turn, a short
// side and a second right turn, with a half-second stop between each.
func DefaultSchedule() Schedule {
	return Schedule{
		{Upper: 8, Maneuver: LongSide},
		{Upper: 9, Maneuver: Stop},
		{Upper: 10, Maneuver: Rotate},
		{Upper: 11, Maneuver: Stop},
		{Upper: 15, Maneuver: ShortSide},
		{Upper: 16, Maneuver: Stop},
		{Upper: 17, Maneuver: Rotate},
		{Upper: 18, Maneuver: Stop},
	}
}

// Lookup returns the maneuver for delay ticks. ok is false past the last
// entry. The caller handles the grace period.
func (s Schedule) Lookup(ticks uint8) (m Maneuver, ok bool) {
	for _, e := range s {
		if ticks <= e.Upper {
			return e.Maneuver, true
		}
	}
	return NoManeuver, false
}

// Last returns the upper bound of the final entry.
func (s Schedule) Last() uint8 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Upper
}

// Duties holds the software PWM duty of each pulsed maneuver.
type Duties struct {
	LongSide  core.Duty `json:"long_side" yaml:"long_side"`
	ShortSide core.Duty `json:"short_side" yaml:"short_side"`
	Rotate    core.Duty `json:"rotate" yaml:"rotate"`
}

// DefaultDuties run 50% on the long side and while rotating, 30% on the
// short side, over a 10-tick window.
func DefaultDuties() Duties {
	return Duties{
		LongSide:  core.Duty{On: 5, Window: 10},
		ShortSide: core.Duty{On: 3, Window: 10},
		Rotate:    core.Duty{On: 5, Window: 10},
	}
}

// For returns the duty of m.
func (d Duties) For(m Maneuver) core.Duty {
	switch m {
	case LongSide:
		return d.LongSide
	case ShortSide:
		return d.ShortSide
	case Rotate:
		return d.Rotate
	}
	return core.Duty{}
}
