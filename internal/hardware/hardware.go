package hardware

import "time"

// Buzzer plays tune strings in the 3pi buzzer notation ("g32", "a b c").
// PlayBuzzer returns as soon as the tune is queued.
type Buzzer interface {
	PlayBuzzer(tune string)
}

// LEDBar writes a multi-bit pattern to the robot's LED bar.
type LEDBar interface {
	SetLEDs(pattern int)
}

// Motors drives the robot. Every call replaces the previous motion.
type Motors interface {
	Forward(speed float64)
	Backward(speed float64)
	Left(speed float64)
	Right(speed float64)
	Stop()
}

// Robot is the 3pi base: buzzer, LED bar and motors on one serial link.
type Robot interface {
	Buzzer
	LEDBar
	Motors
}

// Indicator is a single digital output (the on-board status LED).
type Indicator interface {
	Write(on bool)
	Read() bool
}

// ProximitySensor samples an analog proximity input synchronously.
// Readings are in arbitrary units; the sensor does not buffer.
type ProximitySensor interface {
	Read() float64
}

// Clock blocks the calling goroutine. Sleep is not interruptible.
type Clock interface {
	Sleep(d time.Duration)
}

// SystemClock sleeps in real time.
type SystemClock struct{}

// Sleep blocks for d.
func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
