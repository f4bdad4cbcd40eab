// Package command defines the dispatcher's closed command set and the
// byte layout of mailbox messages: a routing byte, the action tag at
// offset 1 and, for the four arming setters, a value byte at offset 2.
package command
