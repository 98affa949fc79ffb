// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "karaplay"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// MinMpvVersion is the oldest mpv release whose loadfile accepts named arguments with an index.
	MinMpvVersion = "0.38.0"
)

// Build metadata, injected with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
