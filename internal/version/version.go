// Package version exposes build-time version metadata.
package version

import "fmt"

// Set via -ldflags at release time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String returns a human-readable version line.
func String() string {
	return fmt.Sprintf("docsearch %s (commit %s, built %s)", Version, GitCommit, BuildDate)
}
