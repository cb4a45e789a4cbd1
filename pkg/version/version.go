// Package version reports which codexml build is running.
package version

import (
	"fmt"
	"runtime"
)

// Release metadata, stamped by the release build:
//
//	go build -ldflags "-X codexml/pkg/version.Version=v0.3.0 -X codexml/pkg/version.Commit=$(git rev-parse --short HEAD) -X codexml/pkg/version.BuildTime=$(date -u +%FT%TZ)"
//
// Local builds keep the placeholders.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// AppName is the binary and logger name.
const AppName = "codexml"

// Info is a snapshot of the release metadata plus the toolchain and target
// the binary was compiled for.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string // GOOS/GOARCH
}

func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String is what `codexml version` prints, e.g.
// "codexml version v0.3.0 (commit: 1a2b3c4) built at 2025-01-02T03:04:05Z with go1.23.1 on linux/amd64".
func (i Info) String() string {
	return fmt.Sprintf("%s version %s (commit: %s) built at %s with %s on %s",
		AppName, i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
