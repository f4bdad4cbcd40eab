// Package mailbox implements the bounded inter-task queue between command
// producers and the dispatcher.
//
// Slots come from a fixed pool: producers Alloc, fill and Put a message;
// the consumer Gets it and Frees it when done. Alloc fails with ErrFull
// instead of blocking, so backpressure stays on the producer side.
package mailbox
