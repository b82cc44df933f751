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

// String returns the one-line banner printed by `wormvis version`.
func String() string {
	return fmt.Sprintf("wormvis %s (git %s, built %s)", Version, GitSHA, BuildTime)
}
