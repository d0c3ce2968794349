// Package buildinfo carries the version stamped into the baseline binary.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/baseline/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/baseline/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/baseline/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template is the cobra version template for `baseline --version`.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies baseline to the feature catalog provider.
func UserAgent() string {
	return "baseline/" + Version + " (+https://github.com/matzehuels/baseline)"
}
