// Package build provides domain entities for build information.
package build

import "fmt"

// Info holds build-time information injected via ldflags.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// String renders the one-line version banner.
func (i Info) String() string {
	version := i.Version
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("wayfinder %s (commit %s, built %s, %s)", version, i.Commit, i.BuildDate, i.GoVersion)
}

// RepoURL returns the repository URL.
func RepoURL() string {
	return "https://github.com/bnema/wayfinder"
}
