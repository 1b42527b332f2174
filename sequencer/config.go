package sequencer

import (
	"errors"
	"strconv"
)

// Config tunes the sequencer.
type Config struct {
	Schedule Schedule `json:"schedule" yaml:"schedule"`
	Duties   Duties   `json:"duties" yaml:"duties"`

	// GraceTicks delay ticks pass after a start before the first maneuver.
	GraceTicks uint8 `json:"grace_ticks" yaml:"grace_ticks"`

	// WrapTo is loaded into the delay counter once the schedule is
	// exhausted. Values at or below GraceTicks repeat part of the grace
	// period before the itinerary restarts.
	WrapTo uint8 `json:"wrap_to" yaml:"wrap_to"`

	// FailFast stops the car on the first collaborator error.
	FailFast bool `json:"fail_fast" yaml:"fail_fast"`
}

// DefaultConfig returns the factory itinerary.
func DefaultConfig() Config {
	return Config{
		Schedule:   DefaultSchedule(),
		Duties:     DefaultDuties(),
		GraceTicks: 2,
		WrapTo:     2,
	}
}

// Validate checks the schedule and duties. It does not mutate c.
func (c *Config) Validate() error {
	if len(c.Schedule) == 0 {
		return errors.New("schedule: no entries")
	}
	prev := c.GraceTicks
	for i, e := range c.Schedule {
		if e.Upper <= prev {
			return errors.New("schedule[" + strconv.Itoa(i) + "]: upper " +
				strconv.Itoa(int(e.Upper)) + " must exceed " + strconv.Itoa(int(prev)))
		}
		if e.Maneuver == NoManeuver || e.Maneuver >= maneuverCount {
			return errors.New("schedule[" + strconv.Itoa(i) + "]: invalid maneuver")
		}
		prev = e.Upper
	}
	if c.WrapTo >= c.Schedule.Last() {
		return errors.New("wrap_to " + strconv.Itoa(int(c.WrapTo)) +
			" must be below the last schedule bound " + strconv.Itoa(int(c.Schedule.Last())))
	}
	for _, m := range []Maneuver{LongSide, ShortSide, Rotate} {
		if !c.Duties.For(m).Valid() {
			return errors.New("duties." + m.String() + ": on must not exceed a non-zero window")
		}
	}
	return nil
}
