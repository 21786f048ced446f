// Package version holds build-time identity stamped in via -ldflags,
// the way cmd/matchlock's version command reports it.
package version

// Version, GitCommit, and BuildTime default to "dev"/"unknown" for a
// plain `go build` and are overridden at release build time with:
//
//	-ldflags "-X github.com/4lt/qmpp/pkg/version.Version=... \
//	          -X github.com/4lt/qmpp/pkg/version.GitCommit=... \
//	          -X github.com/4lt/qmpp/pkg/version.BuildTime=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
