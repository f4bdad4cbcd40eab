package fake

import (
	"fmt"
	"sync"
	"time"
)

// Op names a recorded hardware operation.
type Op string

// Recorded operations.
const (
	OpBuzzer    Op = "buzzer"
	OpLEDs      Op = "leds"
	OpForward   Op = "forward"
	OpBackward  Op = "backward"
	OpLeft      Op = "left"
	OpRight     Op = "right"
	OpStop      Op = "stop"
	OpIndicator Op = "indicator"
	OpSense     Op = "sense"
	OpSleep     Op = "sleep"
)

// Event is one recorded operation. Only the field matching Op is set.
type Event struct {
	Op       Op
	Tune     string
	Pattern  int
	Speed    float64
	On       bool
	Reading  float64
	Duration time.Duration
}

// String renders the event compactly for assertion messages.
func (e Event) String() string {
	switch e.Op {
	case OpBuzzer:
		return fmt.Sprintf("buzzer(%q)", e.Tune)
	case OpLEDs:
		return fmt.Sprintf("leds(%d)", e.Pattern)
	case OpForward, OpBackward, OpLeft, OpRight:
		return fmt.Sprintf("%s(%g)", e.Op, e.Speed)
	case OpIndicator:
		return fmt.Sprintf("indicator(%t)", e.On)
	case OpSense:
		return fmt.Sprintf("sense(%g)", e.Reading)
	case OpSleep:
		return fmt.Sprintf("sleep(%s)", e.Duration)
	default:
		return string(e.Op)
	}
}

// Recorder implements every hardware port and records calls in order.
// Sleep returns immediately and only advances the recorded time.
type Recorder struct {
	mu        sync.Mutex
	events    []Event
	indicator bool
	reading   float64
	elapsed   time.Duration
	onEvent   func(Event)
}

// NewRecorder creates a recorder whose sensor returns reading.
func NewRecorder(reading float64) *Recorder {
	return &Recorder{
		reading: reading,
	}
}

// OnEvent registers a hook called after each recorded event, outside the lock.
func (r *Recorder) OnEvent(fn func(Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onEvent = fn
}

// SetReading changes the sensor value returned from now on.
func (r *Recorder) SetReading(reading float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reading = reading
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event(nil), r.events...)
}

// Without returns the recorded events excluding the listed operations.
func (r *Recorder) Without(ops ...Op) []Event {
	skip := make(map[Op]struct{}, len(ops))
	for _, op := range ops {
		skip[op] = struct{}{}
	}

	var result []Event

	for _, e := range r.Events() {
		if _, ok := skip[e.Op]; !ok {
			result = append(result, e)
		}
	}

	return result
}

// Elapsed returns the sum of all recorded sleeps.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.elapsed
}

// Reset forgets recorded events and elapsed time.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
	r.elapsed = 0
}

// PlayBuzzer records a tune.
func (r *Recorder) PlayBuzzer(tune string) {
	r.record(Event{Op: OpBuzzer, Tune: tune})
}

// SetLEDs records an LED bar pattern.
func (r *Recorder) SetLEDs(pattern int) {
	r.record(Event{Op: OpLEDs, Pattern: pattern})
}

// Forward records a forward motion.
func (r *Recorder) Forward(speed float64) {
	r.record(Event{Op: OpForward, Speed: speed})
}

// Backward records a backward motion.
func (r *Recorder) Backward(speed float64) {
	r.record(Event{Op: OpBackward, Speed: speed})
}

// Left records a left turn.
func (r *Recorder) Left(speed float64) {
	r.record(Event{Op: OpLeft, Speed: speed})
}

// Right records a right turn.
func (r *Recorder) Right(speed float64) {
	r.record(Event{Op: OpRight, Speed: speed})
}

// Stop records a stop.
func (r *Recorder) Stop() {
	r.record(Event{Op: OpStop})
}

// Write records an indicator level.
func (r *Recorder) Write(on bool) {
	r.mu.Lock()
	r.indicator = on
	r.mu.Unlock()

	r.record(Event{Op: OpIndicator, On: on})
}

// Read returns the last indicator level. It satisfies hardware.Indicator.
func (r *Recorder) Read() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.indicator
}

// Sensor returns the proximity port of the recorder.
func (r *Recorder) Sensor() *Sensor {
	return &Sensor{recorder: r}
}

// Sleep records a delay without blocking.
func (r *Recorder) Sleep(d time.Duration) {
	r.mu.Lock()
	r.elapsed += d
	r.mu.Unlock()

	r.record(Event{Op: OpSleep, Duration: d})
}

// record appends an event and fires the hook.
func (r *Recorder) record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	hook := r.onEvent
	r.mu.Unlock()

	if hook != nil {
		hook(e)
	}
}

// Sensor is the proximity port of a Recorder. It is a separate type because
// Indicator and ProximitySensor both declare Read.
type Sensor struct {
	recorder *Recorder
}

// Read records and returns the current reading.
func (s *Sensor) Read() float64 {
	s.recorder.mu.Lock()
	reading := s.recorder.reading
	s.recorder.mu.Unlock()

	s.recorder.record(Event{Op: OpSense, Reading: reading})

	return reading
}
