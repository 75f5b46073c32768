// Package version provides the version string for the hosttrust binary.
package version

// Version is the current release version.
// This is a var (not const) so ldflags -X can override it at build time.
var Version = "dev"
