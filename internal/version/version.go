// Package version holds catchminer's build identification.
package version

import (
	"runtime"
	"runtime/debug"
)

// Overridden at build time:
// go build -ldflags "-X catchminer/internal/version.Version=1.0.0 -X catchminer/internal/version.Commit=abc123"
var (
	Version   = "0.4.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns the version with a short commit suffix when one is known.
func Info() string {
	commit := Commit
	if commit == "unknown" {
		commit = vcsRevision()
	}
	if len(commit) > 7 {
		return Version + " (" + commit[:7] + ")"
	}
	return Version
}

// Full returns the multi-line version report printed by `catchminer version`.
func Full() string {
	return "catchminer version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate + "\n" +
		"Go: " + runtime.Version()
}

// vcsRevision reads the revision the go tool stamps into binaries built
// from a checkout.
func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return "unknown"
}
