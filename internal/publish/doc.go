// Package publish sends outbound messages through a single shared transport.
//
// Gateway wraps every send in an injected sync.Locker held only around the
// transport call. Heartbeat is a second publisher on the same lock.
// LogTransport stands in for a broker when none is configured.
package publish
