// Package buildinfo carries version metadata stamped at build time:
//
//	go build -ldflags "-X 'github.com/9304065865a/podolog/core/buildinfo.Version=v1.2.3' \
//	  -X 'github.com/9304065865a/podolog/core/buildinfo.Commit=abcdef0' \
//	  -X 'github.com/9304065865a/podolog/core/buildinfo.Date=2026-08-29T12:00:00Z'"
//
// The defaults identify an unstamped local build.
package buildinfo

var (
	// Version is the release tag of the build.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "local"
	// Date is the build timestamp in RFC3339.
	Date = ""
)
