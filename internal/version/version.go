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

// String renders the build identity on one line for the -version flag.
func String() string {
	return fmt.Sprintf("warpfield %s (%s, built %s)", Version, GitSHA, BuildTime)
}
