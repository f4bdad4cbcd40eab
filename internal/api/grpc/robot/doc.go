// Package robot implements the gRPC transport of the robot controller.
//
// CommandService is the producer side of the dispatcher mailbox: Send posts
// raw message content, GetStatus returns the last arming snapshot.
// PublishService is the sink the controller's outbound publishes go to.
//
// Both services use protobuf well-known types (BytesValue, Struct, Empty)
// with hand-declared service descriptors.
package robot
