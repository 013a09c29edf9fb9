// Package version carries build metadata for barcodegen binaries.
package version

import "fmt"

// Build-time variables set by ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns version information
func Info() (string, string, string) {
	return Version, GitCommit, BuildDate
}

// Short returns the bare version string.
func Short() string {
	return Version
}

// String formats the full build description.
func String() string {
	return fmt.Sprintf("barcodegen %s (commit %s, built %s)", Version, GitCommit, BuildDate)
}
