package sim

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Robot is a simulated 3pi base that logs every actuation.
type Robot struct {
	// log receives one entry per actuation.
	log *zap.SugaredLogger
}

// NewRobot creates a simulated robot writing to the provided logger.
func NewRobot(log *zap.SugaredLogger) *Robot {
	return &Robot{
		log: log.Named("m3pi"),
	}
}

// PlayBuzzer logs the tune.
func (r *Robot) PlayBuzzer(tune string) {
	r.log.Debugw("Buzzer", "tune", tune)
}

// SetLEDs logs the LED bar pattern.
func (r *Robot) SetLEDs(pattern int) {
	r.log.Debugw("LED bar", "pattern", pattern, "bits", formatBits(pattern))
}

// Forward logs a forward motion.
func (r *Robot) Forward(speed float64) {
	r.log.Debugw("Motion", "direction", "forward", "speed", speed)
}

// Backward logs a backward motion.
func (r *Robot) Backward(speed float64) {
	r.log.Debugw("Motion", "direction", "backward", "speed", speed)
}

// Left logs a left turn.
func (r *Robot) Left(speed float64) {
	r.log.Debugw("Motion", "direction", "left", "speed", speed)
}

// Right logs a right turn.
func (r *Robot) Right(speed float64) {
	r.log.Debugw("Motion", "direction", "right", "speed", speed)
}

// Stop logs a stop.
func (r *Robot) Stop() {
	r.log.Debugw("Motion", "direction", "stop")
}

// Indicator is a simulated digital output.
type Indicator struct {
	log   *zap.SugaredLogger
	state atomic.Bool
}

// NewIndicator creates a simulated indicator that starts cleared.
func NewIndicator(log *zap.SugaredLogger) *Indicator {
	return &Indicator{
		log: log.Named("led2"),
	}
}

// Write sets the output level.
func (i *Indicator) Write(on bool) {
	i.state.Store(on)
	i.log.Debugw("Indicator", "on", on)
}

// Read returns the last written level.
func (i *Indicator) Read() bool {
	return i.state.Load()
}

// Sensor returns a fixed proximity reading.
type Sensor struct {
	reading float64
}

// NewSensor creates a sensor that always reads the given value.
func NewSensor(reading float64) *Sensor {
	return &Sensor{
		reading: reading,
	}
}

// Read returns the configured reading.
func (s *Sensor) Read() float64 {
	return s.reading
}

// formatBits renders the lowest nine bits of a pattern, most significant first.
func formatBits(pattern int) string {
	const width = 9

	bits := make([]byte, width)
	for i := range width {
		if pattern&(1<<(width-1-i)) != 0 {
			bits[i] = '1'
		} else {
			bits[i] = '0'
		}
	}

	return string(bits)
}
