// Package arming implements the latch that collects four alarm settings
// (tone kind, path kind, LED kind and delay) and the terminal alarm loop
// entered once the duration setter completes the set.
//
// The state is a plain value owned by the dispatcher. Triggering is one-way:
// RunAlarm never hands control back to the caller while the process runs.
package arming
