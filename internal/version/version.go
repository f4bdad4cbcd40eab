package version

import "fmt"

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0-dev"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns the release with commit and build time, e.g. "0.1.0 (abc1234, 2026-10-19T12:00:00Z)".
func Full() string {
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, BuildTime)
}
