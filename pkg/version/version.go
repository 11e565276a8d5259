// Package version provides build information for alpaca-exporter.
package version

// These variables are set via ldflags during build, e.g.
// -X github.com/carverauto/alpaca-exporter/pkg/version.version=1.2.0
//
//nolint:gochecknoglobals // These are intentionally global for ldflags injection
var (
	version = "dev"
	buildID = "dev"
)

const product = "alpaca-exporter"

// GetVersion returns the current version
func GetVersion() string {
	return version
}

// GetFullVersion returns version with build ID
func GetFullVersion() string {
	return version + " (build: " + buildID + ")"
}

// UserAgent is sent with every request to an Alpaca server.
func UserAgent() string {
	return product + "/" + version
}
