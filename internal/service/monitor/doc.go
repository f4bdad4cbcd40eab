// Package monitor implements robot-monitor, a gRPC publish sink standing in
// for the message broker. Every publish it receives is logged.
package monitor
