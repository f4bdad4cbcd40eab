package sequencer

import (
	"time"

	"github.com/oshokin/robot-alarm/internal/hardware"
)

// Guard holds the constants of the one-shot proximity check made after a path.
type Guard struct {
	// Scale multiplies the raw reading.
	Scale float64
	// Threshold triggers the correction when the scaled reading is below it.
	Threshold float64
	// Correction is the speed of the single extra left turn.
	Correction float64
}

// DefaultGuard matches the stock ultrasound wiring.
//
//nolint:gochecknoglobals // Read-only default.
var DefaultGuard = Guard{
	Scale:      5,
	Threshold:  10,
	Correction: 0.5,
}

// Sequencer plays the scripted tone, LED and path sequences.
// Every method blocks for the sum of its delays and is not interruptible.
type Sequencer struct {
	robot  hardware.Robot
	sensor hardware.ProximitySensor
	clock  hardware.Clock
	unit   time.Duration
	guard  Guard
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithGuard overrides the proximity constants used by Go.
func WithGuard(g Guard) Option {
	return func(s *Sequencer) {
		s.guard = g
	}
}

// WithClock overrides the clock used for delays.
func WithClock(c hardware.Clock) Option {
	return func(s *Sequencer) {
		if c != nil {
			s.clock = c
		}
	}
}

// New creates a sequencer. A non-positive unit falls back to one second.
func New(robot hardware.Robot, sensor hardware.ProximitySensor, unit time.Duration, opts ...Option) *Sequencer {
	if unit <= 0 {
		unit = time.Second
	}

	s := &Sequencer{
		robot:  robot,
		sensor: sensor,
		clock:  hardware.SystemClock{},
		unit:   unit,
		guard:  DefaultGuard,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Unit returns the length of one time-unit.
func (s *Sequencer) Unit() time.Duration {
	return s.unit
}

// Wait blocks for the given hold.
func (s *Sequencer) Wait(h Hold) {
	if h <= 0 {
		return
	}

	s.clock.Sleep(h.Duration(s.unit))
}

// Beep plays a raw tune.
func (s *Sequencer) Beep(tune string) {
	s.robot.PlayBuzzer(tune)
}

// PlayTone plays the tone of the given kind. Unknown kinds do nothing.
func (s *Sequencer) PlayTone(kind int) {
	tune, ok := tones[kind]
	if !ok {
		return
	}

	s.robot.PlayBuzzer(tune)
}

// PlayIndicatorPattern shows the LED bar pattern of the given kind.
// Unknown kinds do nothing.
func (s *Sequencer) PlayIndicatorPattern(kind int) {
	for _, f := range indicatorPatterns[kind] {
		s.robot.SetLEDs(f.pattern)
		s.Wait(f.hold)
	}
}

// RunPath drives the path of the given kind and stops. Unknown kinds do nothing.
func (s *Sequencer) RunPath(kind int) {
	steps, ok := paths[kind]
	if !ok {
		return
	}

	for _, m := range steps {
		s.move(m.move, m.speed)
		s.Wait(m.hold)
	}

	s.robot.Stop()
}

// Go runs the path and then samples the proximity sensor exactly once.
// A scaled reading below the threshold adds one left turn. The check happens
// only after the path has finished, so it cannot avoid a collision on the way.
func (s *Sequencer) Go(kind int) {
	s.RunPath(kind)

	if s.sensor == nil {
		return
	}

	if s.sensor.Read()*s.guard.Scale < s.guard.Threshold {
		s.robot.Left(s.guard.Correction)
	}
}

// move issues one motion primitive.
func (s *Sequencer) move(m Move, speed float64) {
	switch m {
	case MoveForward:
		s.robot.Forward(speed)
	case MoveBackward:
		s.robot.Backward(speed)
	case MoveLeft:
		s.robot.Left(speed)
	case MoveRight:
		s.robot.Right(speed)
	}
}
