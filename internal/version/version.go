// Package version exposes build information injected with -ldflags.
package version

import "fmt"

// Set at build time:
//
//	go build -ldflags "-X github.com/Norgate-AV/wintrack/internal/version.version=v1.2.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info is the build information reported by `wintrack --version`.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the build information of the running binary.
func Get() Info {
	return Info{Version: version, Commit: commit, Date: date}
}

// GetVersion returns the semantic version, or "dev" for local builds.
func GetVersion() string {
	return version
}

// String renders the version with commit and build date.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}
