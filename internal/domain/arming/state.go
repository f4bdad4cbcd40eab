package arming

import (
	"fmt"

	"github.com/oshokin/robot-alarm/internal/sequencer"
)

// Unset marks a field that has not been configured yet.
const Unset = -1

// Phase is the position of the arming state machine.
type Phase int

// Phases. Triggered is terminal.
const (
	PhaseUnarmed Phase = iota
	PhaseArmed
	PhaseTriggered
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseUnarmed:
		return "unarmed"
	case PhaseArmed:
		return "armed"
	case PhaseTriggered:
		return "triggered"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ParsePhase converts a phase name back to a Phase.
func ParsePhase(name string) (Phase, bool) {
	for _, p := range []Phase{PhaseUnarmed, PhaseArmed, PhaseTriggered} {
		if p.String() == name {
			return p, true
		}
	}

	return PhaseUnarmed, false
}

// State holds the four latched alarm settings. It is a value: setters
// return an updated copy and leave the receiver untouched.
type State struct {
	// AlarmKind selects the tone.
	AlarmKind int
	// PathKind selects the locomotion path.
	PathKind int
	// LEDKind selects the LED bar pattern.
	LEDKind int
	// DurationTicks is the arming delay in tenths of a time-unit.
	DurationTicks int
}

// NewState returns a state with every field unset.
func NewState() State {
	return State{
		AlarmKind:     Unset,
		PathKind:      Unset,
		LEDKind:       Unset,
		DurationTicks: Unset,
	}
}

// WithAlarmKind overwrites the alarm kind.
func (s State) WithAlarmKind(kind int) State {
	s.AlarmKind = kind

	return s
}

// WithPathKind overwrites the path kind.
func (s State) WithPathKind(kind int) State {
	s.PathKind = kind

	return s
}

// WithLEDKind overwrites the LED kind.
func (s State) WithLEDKind(kind int) State {
	s.LEDKind = kind

	return s
}

// WithDuration overwrites the duration and reports whether the alarm triggers.
// This is the only trigger checkpoint: completing the set through another
// setter while the duration is already latched does not trigger.
func (s State) WithDuration(ticks int) (State, bool) {
	s.DurationTicks = ticks

	return s, s.Complete()
}

// Complete reports whether all four fields are set.
func (s State) Complete() bool {
	return s.AlarmKind != Unset &&
		s.PathKind != Unset &&
		s.LEDKind != Unset &&
		s.DurationTicks != Unset
}

// Phase returns PhaseArmed when every field is set and PhaseUnarmed otherwise.
// PhaseTriggered is never derived from the fields; the owner records it.
func (s State) Phase() Phase {
	if s.Complete() {
		return PhaseArmed
	}

	return PhaseUnarmed
}

// Delay returns the arming delay: a tenth of a time-unit per tick.
func (s State) Delay() sequencer.Hold {
	return sequencer.Tenths(s.DurationTicks)
}
