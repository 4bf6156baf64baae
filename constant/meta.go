// Package constant defines immutable application-level identifiers and build metadata.
package constant

const (
	// Cheta is the canonical application identifier used for filesystem paths and CLI branding.
	Cheta = "cheta"

	// Version is the current application semantic version string.
	Version = "0.3.0"
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
