package syncfile_test

import (
	"fmt"

	"github.com/relcut/relcut/internal/semver"
	"github.com/relcut/relcut/internal/syncfile"
)

// ExampleCommentRule demonstrates rewriting a version comment in ini-style
// content. Rules are pure functions over content, so no file is needed.
func ExampleCommentRule() {
	content := []byte("# Version: 0.0.3\n[lint]\nmax = 10\n")
	v, err := semver.Parse("0.0.4")
	if err != nil {
		fmt.Println("parse failed:", err)
		return
	}

	out, matched, err := syncfile.CommentRule{}.Apply(content, v)
	if err != nil {
		fmt.Println("apply failed:", err)
		return
	}
	fmt.Println(matched)
	fmt.Print(string(out))
	// Output:
	// true
	// # Version: 0.0.4
	// [lint]
	// max = 10
}

// ExampleDownloadURLRule shows that only URLs ending in the configured
// artifact filename are rewritten.
func ExampleDownloadURLRule() {
	content := []byte("https://x.test/download/v0.0.3/config.zip\nhttps://x.test/download/v0.0.3/other.zip\n")
	v, _ := semver.Parse("0.0.4")

	out, _, _ := syncfile.DownloadURLRule{Artifact: "config.zip"}.Apply(content, v)
	fmt.Print(string(out))
	// Output:
	// https://x.test/download/v0.0.4/config.zip
	// https://x.test/download/v0.0.3/other.zip
}
