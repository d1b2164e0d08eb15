// Package version exposes release metadata stamped onto the creditdesk
// binary with -ldflags at build time.
package version

//nolint:revive // Overwritten by the release build.
var (
	// Version is the semantic release version.
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = "unknown"
	// BuiltAt is the UTC build timestamp.
	BuiltAt = "unknown"
)

// String renders the version with its commit for startup logs.
func String() string {
	return Version + " (" + Commit + ")"
}
