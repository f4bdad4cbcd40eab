// Package controller runs the robot-controller process: it loads settings,
// takes the single-instance lock, builds the simulated hardware, the
// sequencer, the publish gateway with its heartbeat, and the dispatcher,
// and serves the command gRPC API until shutdown.
package controller
