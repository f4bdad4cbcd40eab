// Package status persists snapshots of the arming state.
//
// FileRepository writes the snapshot as protojson after every arming change
// so operators can see what the robot has latched. The controller never
// reads it back into the dispatcher: each run starts unarmed.
package status
