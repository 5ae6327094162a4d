// Package misc keeps build identification.
package misc

import (
	"runtime/debug"
)

const appName = "themecheck"

// Set at link time: -ldflags "-X themecheck/misc.version=... -X themecheck/misc.gitHash=..."
var (
	version = "dev"
	gitHash = ""
)

// GetAppName returns program name used for logs and reports.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

// GetGitHash returns VCS revision the program was built from.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
