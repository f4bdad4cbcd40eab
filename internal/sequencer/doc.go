// Package sequencer plays the compiled-in actuator profiles of the robot:
// tones, LED bar patterns and locomotion paths, each selected by a small
// integer kind (0 normal, 1 alternate).
//
// Sequences block the caller in real time through a hardware.Clock. The
// Go method wraps a path with a single proximity sample taken afterwards.
package sequencer
