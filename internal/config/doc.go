// Package config defines the robot settings used by the binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Validate fills defaults for every optional field, so a file holding only
// listen_addr is a complete configuration.
package config
