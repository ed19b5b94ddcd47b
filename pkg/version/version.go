// Package version reports the devicemap release, stamped at link time:
//
//	go build -ldflags "-X github.com/carverauto/devicemap/pkg/version.version=v0.3.0 \
//	  -X github.com/carverauto/devicemap/pkg/version.commit=$(git rev-parse --short HEAD)"
package version

//nolint:gochecknoglobals // set via -ldflags -X
var (
	version = "dev"
	commit  = ""
)

// GetVersion returns the release version, "dev" for unstamped builds.
func GetVersion() string {
	return version
}

// GetCommit returns the source revision, empty for unstamped builds.
func GetCommit() string {
	return commit
}

// GetFullVersion returns the version followed by the commit when known.
func GetFullVersion() string {
	if commit == "" {
		return version
	}

	return version + " (" + commit + ")"
}
