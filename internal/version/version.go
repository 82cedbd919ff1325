// Package version holds build metadata set via -ldflags.
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns the full version line for CLI output.
func String() string {
	return fmt.Sprintf("traffic-report %s (%s, built %s)", Version, GitSHA, BuildTime)
}
