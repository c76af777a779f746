// Package lattice carries the release version shared by the lattice
// packages and the lattice command.
package lattice

import (
	_ "embed"
	"regexp"
	"strconv"
	"strings"
)

var semverRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(-[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?(?:\+[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?$`)

//go:embed VERSION
var embeddedVersion string

// Version returns the release version without the leading `v`.
func Version() string {
	return strings.TrimSpace(embeddedVersion)
}

// Semver is a parsed version. Pre holds the pre-release suffix without
// its dash; build metadata is dropped.
type Semver struct {
	Major, Minor, Patch int
	Pre                 string
}

// ParseSemver parses a SemVer 2.0.0 string. A leading `v` is rejected.
func ParseSemver(v string) (Semver, bool) {
	m := semverRE.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return Semver{}, false
	}
	var s Semver
	var err error
	if s.Major, err = strconv.Atoi(m[1]); err != nil {
		return Semver{}, false
	}
	if s.Minor, err = strconv.Atoi(m[2]); err != nil {
		return Semver{}, false
	}
	if s.Patch, err = strconv.Atoi(m[3]); err != nil {
		return Semver{}, false
	}
	s.Pre = strings.TrimPrefix(m[4], "-")
	return s, true
}

// Current parses Version. The embedded file is checked by tests, so ok is
// false only for a broken build.
func Current() (Semver, bool) {
	return ParseSemver(Version())
}
