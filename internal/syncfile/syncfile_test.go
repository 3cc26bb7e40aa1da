package syncfile

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relcut/relcut/internal/semver"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustVersion(t *testing.T, s string) semver.Version {
	t.Helper()
	v, err := semver.Parse(s)
	require.NoError(t, err)
	return v
}

func TestCommentRule(t *testing.T) {
	v := mustVersion(t, "0.0.4")
	tests := []struct {
		name     string
		in       string
		out      string
		matched  bool
	}{
		{
			name:    "plain comment",
			in:      "# Version: 0.0.3\n[settings]\nkey = value\n",
			out:     "# Version: 0.0.4\n[settings]\nkey = value\n",
			matched: true,
		},
		{
			name:    "suffixed prior version",
			in:      "# Version: 1.2.3-test\n",
			out:     "# Version: 0.0.4\n",
			matched: true,
		},
		{
			name:    "trailing whitespace preserved",
			in:      "# Version: 0.0.3  \t\n[settings]\n",
			out:     "# Version: 0.0.4  \t\n[settings]\n",
			matched: true,
		},
		{
			name:    "no version comment",
			in:      "[settings]\nkey = value\n",
			out:     "[settings]\nkey = value\n",
			matched: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, matched, err := CommentRule{}.Apply([]byte(tc.in), v)
			require.NoError(t, err)
			assert.Equal(t, tc.matched, matched)
			assert.Equal(t, tc.out, string(out))
		})
	}
}

func TestDownloadURLRule(t *testing.T) {
	rule := DownloadURLRule{Artifact: "config.zip"}
	v := mustVersion(t, "0.0.4")

	in := "Get it [here](https://example.com/releases/download/v0.0.3/config.zip)\n" +
		"Other tool: https://example.com/releases/download/v9.9.9/other.zip\n" +
		"Mirror: https://mirror.example.com/releases/download/v0.0.3/config.zip\n"
	out, matched, err := rule.Apply([]byte(in), v)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Contains(t, string(out), "/download/v0.0.4/config.zip")
	assert.NotContains(t, string(out), "/download/v0.0.3/config.zip")
	// Unrelated artifact URLs stay as they were.
	assert.Contains(t, string(out), "/download/v9.9.9/other.zip")
	// Every matching occurrence is rewritten, not just the first.
	assert.Equal(t, 2, strings.Count(string(out), "/download/v0.0.4/config.zip"))
}

func TestManifestRule(t *testing.T) {
	v := mustVersion(t, "0.0.4")

	t.Run("preserves formatting", func(t *testing.T) {
		in := "{\n    \"name\": \"widget\",\n    \"version\": \"0.0.3\",\n    \"keywords\": [\"a\", \"b\"]\n}\n"
		out, matched, err := ManifestRule{}.Apply([]byte(in), v)
		require.NoError(t, err)
		assert.True(t, matched)
		assert.Contains(t, string(out), "\"version\": \"0.0.4\"")
		assert.Contains(t, string(out), "    \"name\": \"widget\"")
		assert.Contains(t, string(out), "[\"a\", \"b\"]")
	})

	t.Run("missing version field", func(t *testing.T) {
		in := `{"name": "widget"}`
		out, matched, err := ManifestRule{}.Apply([]byte(in), v)
		require.NoError(t, err)
		assert.False(t, matched)
		assert.Equal(t, in, string(out))
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, _, err := ManifestRule{}.Apply([]byte("not json"), v)
		require.Error(t, err)
	})
}

func TestSyncAll(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifest.json")
	cfg := filepath.Join(dir, "lint.cfg")
	doc := filepath.Join(dir, "README.md")

	require.NoError(t, os.WriteFile(manifest, []byte(`{"version": "0.0.3"}`), 0o644))
	require.NoError(t, os.WriteFile(cfg, []byte("# Version: 0.0.3\n"), 0o644))
	require.NoError(t, os.WriteFile(doc, []byte("https://x.test/download/v0.0.3/config.zip\n"), 0o644))

	targets := []Target{
		{Path: manifest, Rule: ManifestRule{}},
		{Path: cfg, Rule: CommentRule{}},
		{Path: doc, Rule: DownloadURLRule{Artifact: "config.zip"}},
	}
	v := mustVersion(t, "0.0.4")

	results, err := SyncAll(targets, v, discard())
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.Applied, r.Path)
	}

	// Cross-file consistency: every target extracts exactly the new version.
	for _, tgt := range targets {
		content, err := os.ReadFile(tgt.Path)
		require.NoError(t, err)
		got, ok := ExtractVersion(tgt.Rule, content)
		require.True(t, ok, tgt.Path)
		assert.Equal(t, "0.0.4", got, tgt.Path)
	}
}

func TestSyncAllIdempotent(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "lint.cfg")
	doc := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(cfg, []byte("# Version: 0.0.3\n"), 0o644))
	require.NoError(t, os.WriteFile(doc, []byte("see https://x.test/download/v0.0.3/config.zip here\n"), 0o644))

	targets := []Target{
		{Path: cfg, Rule: CommentRule{}},
		{Path: doc, Rule: DownloadURLRule{Artifact: "config.zip"}},
	}
	v := mustVersion(t, "1.2.3-test")

	_, err := SyncAll(targets, v, discard())
	require.NoError(t, err)
	first := readAll(t, cfg, doc)

	_, err = SyncAll(targets, v, discard())
	require.NoError(t, err)
	second := readAll(t, cfg, doc)

	assert.Equal(t, first, second)
	// A literal test version round-trips byte for byte.
	assert.Contains(t, second[0], "# Version: 1.2.3-test")
	assert.Contains(t, second[1], "/download/v1.2.3-test/config.zip")

	// The written token is still extractable: a rule must always be able
	// to re-match what it wrote, or later runs would drift past the file.
	for i, tgt := range targets {
		got, ok := ExtractVersion(tgt.Rule, []byte(second[i]))
		require.True(t, ok, tgt.Path)
		assert.Equal(t, "1.2.3-test", got, tgt.Path)
	}
}

func readAll(t *testing.T, paths ...string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		out = append(out, string(b))
	}
	return out
}

func TestSyncAllMissingFile(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "lint.cfg")
	require.NoError(t, os.WriteFile(present, []byte("# Version: 0.0.3\n"), 0o644))

	targets := []Target{
		{Path: filepath.Join(dir, "absent.cfg"), Rule: CommentRule{}},
		{Path: present, Rule: CommentRule{}},
	}
	results, err := SyncAll(targets, mustVersion(t, "0.0.4"), discard())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.False(t, results[0].Applied)
	assert.True(t, results[1].Applied)
}

func TestSyncAllPatternMismatchLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	original := "nothing resembling a version comment\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

	results, err := SyncAll([]Target{{Path: path, Rule: CommentRule{}}}, mustVersion(t, "0.0.4"), discard())
	require.NoError(t, err)
	assert.False(t, results[0].Applied)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(content))
}
