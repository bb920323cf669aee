// Package version holds build identity, overridable at link time:
//
//	go build -ldflags "-X .../internal/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

var (
	AppName        = "Hack 'n' Slash"
	AppDescription = "A bot to manage custom slash commands in a guild, with autocompletion and templated responses."
	Repository     = "https://github.com/TinkerStorm/hack-n-slash"

	// BuildDate is an RFC3339 timestamp injected by the build.
	BuildDate = ""
)
