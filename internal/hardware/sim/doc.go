// Package sim provides a simulated 3pi base, status indicator and proximity
// sensor. Actuations are written to a zap logger at debug level, which lets
// the controller run on a workstation without the robot attached.
package sim
