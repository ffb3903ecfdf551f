// Package version holds the library version string returned by the
// facade's LibraryVersion and printed by the CLI's version subcommand.
package version

import "runtime/debug"

// version is overridden at build time via -ldflags "-X
// .../internal/version.version=v1.2.3"; it falls back to the module's own
// build info (vcs revision) when built without ldflags, e.g. via `go run`
// or `go install` from source.
var version = "dev"

// String returns the library version.
func String() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return "dev+" + setting.Value
			}
		}
	}
	return version
}
