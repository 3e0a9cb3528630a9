package version

import "fmt"

// Name is the program name used in the User-Agent header.
const Name = "tag-sync"

var (
	// Version is the semantic version of the build.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time.
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// UserAgent returns the value sent in the User-Agent header of registry requests.
func UserAgent() string {
	return Name + "/" + Version
}

// Full returns a human-readable version line with commit and build time.
func Full() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", Name, Version, Commit, BuildTime)
}
