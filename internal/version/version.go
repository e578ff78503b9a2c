// Package version reports build information for recolour.
//
// Release builds inject Version, Commit and Date with -ldflags, e.g.
//
//	-X github.com/jmylchreest/recolour/internal/version.Version=1.2.0
//
// Builds without ldflags fall back to the VCS stamp the Go toolchain embeds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const unknown = "unknown"

var (
	// Version is the semantic version of the application.
	Version = "dev"

	// Commit is the git commit hash of the build.
	Commit = unknown

	// Date is the build date in RFC3339 format.
	Date = unknown
)

// Info holds all version information for the application.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetInfo returns the build information, filling commit and date from the
// embedded VCS stamp when they were not injected.
func GetInfo() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == unknown {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.Date == unknown {
					info.Date = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}
	return info
}

// String returns a one-line description of the build.
func (i Info) String() string {
	if i.Commit == unknown {
		return fmt.Sprintf("recolour version %s (%s, %s)", i.Version, i.GoVersion, i.Platform)
	}

	commit := i.Commit
	if len(commit) > 8 {
		commit = commit[:8]
	}
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("recolour version %s (commit: %s, built: %s, %s, %s)",
		i.Version, commit, i.Date, i.GoVersion, i.Platform)
}

// String describes the running binary.
func String() string {
	return GetInfo().String()
}

// Short returns the bare version, as shown by --version.
func Short() string {
	return Version
}
