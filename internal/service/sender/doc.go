// Package sender implements robot-sender, a command-line producer for the
// controller mailbox. It encodes one command (or the four arming setters)
// and sends it over the controller's gRPC API.
package sender
