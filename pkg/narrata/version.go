// Package narrata holds build information for the narrata binary.
package narrata

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/mesh-intelligence/narrata/pkg/narrata.Version=...".
var Version = "0.1.0"
