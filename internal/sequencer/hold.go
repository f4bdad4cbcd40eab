package sequencer

import "time"

// Hold is a delay in thousandths of a time-unit. Integer storage keeps the
// scripted delays exact for any time-unit length.
type Hold int

// Common holds.
const (
	HoldHundredth Hold = 10
	HoldTenth     Hold = 100
	HoldUnit      Hold = 1000
)

// Units returns a hold of n whole time-units.
func Units(n int) Hold {
	return Hold(n) * HoldUnit
}

// Tenths returns a hold of n tenths of a time-unit.
func Tenths(n int) Hold {
	return Hold(n) * HoldTenth
}

// Duration converts the hold to real time for the given unit length.
func (h Hold) Duration(unit time.Duration) time.Duration {
	return unit * time.Duration(h) / time.Duration(HoldUnit)
}
