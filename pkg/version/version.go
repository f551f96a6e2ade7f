// Package version reports which ivindex build is running.
package version

import (
	"fmt"
	"runtime/debug"
)

const develVersion = "dev"

// Build metadata, overridden at link time with
// -ldflags "-X github.com/Sumatoshi-tech/ivindex/pkg/version.Version=...".
var (
	Version = develVersion
	Commit  = "none"
	Date    = "unknown"
)

// InitBinaryVersion fills unset build metadata from the module build info
// embedded by `go install` and `go build`.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == develVersion && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "none" {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = s.Value
			}
		}
	}
}

// String formats the build metadata for the version command.
func String() string {
	return fmt.Sprintf("ivindex %s (commit: %s, built: %s)", Version, Commit, Date)
}
