// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client for the controller and publish
// sink (Send, GetStatus, Publish) with call timeouts, and detects the
// current system actor (hostname/username) for the audit trail.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
