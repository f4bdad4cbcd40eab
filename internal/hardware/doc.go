// Package hardware declares the actuator and sensor ports the controller
// drives: buzzer, LED bar, motors, the status indicator, the proximity
// sensor and a blocking clock.
//
// Concrete drivers live in subpackages: sim logs actuations for bench runs,
// fake records them for tests.
package hardware
