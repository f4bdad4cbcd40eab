// Package version exposes build metadata shared by robot-controller,
// robot-sender and robot-monitor.
//
// Version, Commit and BuildTime are set with -ldflags -X at build time.
package version
