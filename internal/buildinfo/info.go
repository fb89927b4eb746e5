// Package buildinfo carries version metadata stamped into the roster binary.
package buildinfo

// Set with -ldflags "-X github.com/cleared-dev/roster/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
