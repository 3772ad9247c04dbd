// Package version reports build metadata together with the feature layout it produces
package version

import "seqfeat/internal/core/alphabet"

// BuildInfo holds version information about the build.
// Alphabet pins the vector layout so stored features can be matched to the code that wrote them.
type BuildInfo struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Alphabet string `json:"alphabet"`
}

// Info returns the build information. version, commit and date are set with
// -ldflags "-X 'seqfeat/internal/core/version.version=v0.1.0' -X ...commit=abcd -X ...date=2026-01-01"
func Info() BuildInfo {
	return BuildInfo{
		Version:  version,
		Commit:   commit,
		Date:     date,
		Alphabet: alphabet.Standard.String(),
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
