// Package buildinfo exposes version metadata set at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/moments/internal/buildinfo.buildVersion=v1.2.0"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}

// UserAgent is sent with every outbound HTTP request.
func UserAgent() string {
	return "moments/" + buildVersion
}
