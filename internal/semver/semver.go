// Package semver models the semantic versions the release pipeline computes
// and propagates. Versions are plain MAJOR.MINOR.PATCH with an optional
// suffix (e.g. "1.2.3-test"); the "v" prefix belongs to git tags, not to the
// version itself.
package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	xsemver "golang.org/x/mod/semver"
)

// ErrMalformedVersion indicates a version string that does not parse as
// MAJOR.MINOR.PATCH with an optional -SUFFIX.
var ErrMalformedVersion = errors.New("malformed version")

// Version is an immutable semantic version.
type Version struct {
	Major  int
	Minor  int
	Patch  int
	Suffix string
}

// Kind selects which component a bump increments, or a literal override.
type Kind int

const (
	KindPatch Kind = iota
	KindMinor
	KindMajor
	KindLiteral
)

// Intent is the sole external input to a pipeline run: either a component
// bump or a literal version supplied whole.
type Intent struct {
	Kind    Kind
	Literal Version
}

// ParseIntent maps the CLI's positional argument to an Intent. "major",
// "minor" and "patch" select a component bump; a version carrying a suffix
// (e.g. "1.2.3-test") becomes a dry-run literal. Everything else, including
// bare release versions and the empty string, falls back to a patch bump —
// literals exist only for non-persisted test runs.
func ParseIntent(arg string) Intent {
	switch arg {
	case "major":
		return Intent{Kind: KindMajor}
	case "minor":
		return Intent{Kind: KindMinor}
	case "patch", "":
		return Intent{Kind: KindPatch}
	}
	if v, err := Parse(arg); err == nil && v.IsTest() {
		return Intent{Kind: KindLiteral, Literal: v}
	}
	return Intent{Kind: KindPatch}
}

// Parse converts "MAJOR.MINOR.PATCH" or "MAJOR.MINOR.PATCH-SUFFIX" into a
// Version. It rejects "v" prefixes, build metadata, and anything x/mod
// considers invalid semver. Build metadata is rejected even inside the
// suffix: the sync rules match suffixes over [0-9A-Za-z.-] only, and a
// version they cannot re-match would break the round-trip guarantee.
func Parse(s string) (Version, error) {
	if s == "" || strings.HasPrefix(s, "v") {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}
	if strings.ContainsRune(s, '+') {
		return Version{}, fmt.Errorf("%w: %q (build metadata is not supported)", ErrMalformedVersion, s)
	}
	if !xsemver.IsValid("v" + s) {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}
	core, suffix, _ := strings.Cut(s, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}
	var v Version
	var err error
	if v.Major, err = strconv.Atoi(parts[0]); err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}
	if v.Minor, err = strconv.Atoi(parts[1]); err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}
	if v.Patch, err = strconv.Atoi(parts[2]); err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}
	v.Suffix = suffix
	return v, nil
}

// String renders the canonical textual form without a "v" prefix.
func (v Version) String() string {
	base := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Suffix != "" {
		return base + "-" + v.Suffix
	}
	return base
}

// Tag renders the git tag form, "v" + String().
func (v Version) Tag() string {
	return "v" + v.String()
}

// IsTest reports whether the version carries a suffix. Suffixed versions are
// dry-run versions: the pipeline never commits, tags, or publishes them.
func (v Version) IsTest() bool {
	return v.Suffix != ""
}

// Compare orders versions by semantic-versioning precedence (a suffixed
// version sorts before its unsuffixed release). Returns -1, 0, or 1.
func Compare(a, b Version) int {
	return xsemver.Compare(a.Tag(), b.Tag())
}

// Bump resolves an Intent against the current version. A literal intent
// returns its version verbatim without reading current; component bumps
// increment their component, zero the lower ones, and clear any suffix.
// Unrecognized kinds behave as a patch bump.
func Bump(current Version, intent Intent) Version {
	switch intent.Kind {
	case KindLiteral:
		return intent.Literal
	case KindMajor:
		return Version{Major: current.Major + 1}
	case KindMinor:
		return Version{Major: current.Major, Minor: current.Minor + 1}
	default:
		return Version{Major: current.Major, Minor: current.Minor, Patch: current.Patch + 1}
	}
}
