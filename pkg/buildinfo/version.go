// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/reflow/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/reflow/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/reflow/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/reflow
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template is the cobra version template, e.g. "reflow version v0.3.0 (abc1234, 2026-01-02T15:04:05Z)".
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s (%s, %s)\n", Version, Commit, Date)
}
