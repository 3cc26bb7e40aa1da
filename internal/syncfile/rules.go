// Package syncfile rewrites the version tokens embedded in a fixed set of
// release files. Each file is bound to a Rule: a pure function from file
// content and target version to rewritten content. Rules match the
// structural shape of a version token (digits, dots, optional suffix), not
// the specific prior value, which is what makes synchronization idempotent.
package syncfile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/relcut/relcut/internal/semver"
)

// Rule locates the version token(s) in a file's content and produces the
// rewritten content. matched is false when no token was found; content must
// be returned unchanged in that case.
type Rule interface {
	// Name identifies the rule in logs and reports.
	Name() string
	Apply(content []byte, v semver.Version) (out []byte, matched bool, err error)
}

// versionToken matches the bare textual form of a version,
// MAJOR.MINOR.PATCH with an optional -SUFFIX.
const versionToken = `\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?`

// CommentRule rewrites a "# Version: X.Y.Z" comment line, the convention
// used by ini-style config files that cannot carry structured metadata.
type CommentRule struct{}

var commentPattern = regexp.MustCompile(`(?m)^(#\s*Version:\s*)` + versionToken + `([ \t]*)$`)

func (CommentRule) Name() string { return "version comment" }

func (CommentRule) Apply(content []byte, v semver.Version) ([]byte, bool, error) {
	if !commentPattern.Match(content) {
		return content, false, nil
	}
	// Trailing whitespace on the line is carried through untouched.
	out := commentPattern.ReplaceAll(content, []byte("${1}"+v.String()+"${2}"))
	return out, true, nil
}

// DownloadURLRule rewrites release download URLs of the form
// .../download/vX.Y.Z/<artifact> inside documentation. The rule is keyed to
// one artifact filename: URLs ending in a different artifact are left
// untouched, so a renamed artifact silently strands old links until the
// configured name catches up.
type DownloadURLRule struct {
	// Artifact is the exact filename the URL must end with, e.g. "config.zip".
	Artifact string
}

func (r DownloadURLRule) Name() string { return "download URL" }

func (r DownloadURLRule) pattern() *regexp.Regexp {
	return regexp.MustCompile(`(/download/)v` + versionToken + `(/` + regexp.QuoteMeta(r.Artifact) + `)`)
}

func (r DownloadURLRule) Apply(content []byte, v semver.Version) ([]byte, bool, error) {
	re := r.pattern()
	if !re.Match(content) {
		return content, false, nil
	}
	out := re.ReplaceAll(content, []byte("${1}"+v.Tag()+"${2}"))
	return out, true, nil
}

// ManifestRule rewrites the top-level "version" field of a JSON manifest.
// The manifest is structured data, so it is edited structurally rather than
// by pattern match; sjson preserves the formatting and ordering of
// everything it does not touch, including the indentation width as read.
type ManifestRule struct{}

func (ManifestRule) Name() string { return "manifest version field" }

func (ManifestRule) Apply(content []byte, v semver.Version) ([]byte, bool, error) {
	if !gjson.ValidBytes(content) {
		return content, false, fmt.Errorf("manifest is not valid JSON")
	}
	if !gjson.GetBytes(content, "version").Exists() {
		return content, false, nil
	}
	out, err := sjson.SetBytes(content, "version", v.String())
	if err != nil {
		return content, false, fmt.Errorf("rewriting manifest version: %w", err)
	}
	return out, true, nil
}

// ExtractVersion pulls the current version substring back out of content
// using the same shape a rule rewrites. It is the verification half of the
// cross-file consistency property: after a sync, every file's extracted
// version must equal the target version exactly.
func ExtractVersion(r Rule, content []byte) (string, bool) {
	switch rule := r.(type) {
	case CommentRule:
		m := commentPattern.FindSubmatch(content)
		if m == nil {
			return "", false
		}
		full := string(m[0])
		return strings.TrimSpace(strings.TrimPrefix(full, string(m[1]))), true
	case DownloadURLRule:
		re := regexp.MustCompile(`/download/v(` + versionToken + `)/` + regexp.QuoteMeta(rule.Artifact))
		m := re.FindSubmatch(content)
		if m == nil {
			return "", false
		}
		return string(m[1]), true
	case ManifestRule:
		res := gjson.GetBytes(content, "version")
		if !res.Exists() {
			return "", false
		}
		return res.String(), true
	}
	return "", false
}
