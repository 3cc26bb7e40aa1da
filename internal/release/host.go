// Package release talks to the remote release host and to the operator's
// browser. Both are external collaborators reached through subprocesses:
// the GitHub CLI for publishing, the platform opener for notification.
package release

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Host publishes a release entry for an existing tag, attaching the built
// artifacts.
type Host interface {
	CreateRelease(tag, title, notes string, attachments []string) (stdout, stderr string, err error)
}

// GH publishes releases via the `gh` CLI. Repo optionally pins the target
// repository ("owner/name"); Dir sets the working directory for repo
// inference when Repo is empty.
type GH struct {
	Repo string
	Dir  string
}

var _ Host = (*GH)(nil)

func (g *GH) CreateRelease(tag, title, notes string, attachments []string) (string, string, error) {
	args := []string{"release", "create", tag}
	args = append(args, attachments...)
	args = append(args, "--title", title, "--notes", notes)
	if g.Repo != "" {
		args = append(args, "--repo", g.Repo)
	}

	cmd := exec.Command("gh", args...)
	cmd.Dir = g.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), stderr.String(),
			fmt.Errorf("gh release create failed: %v, detail: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), stderr.String(), nil
}

// ReleaseTitle renders the generated title for a published release.
func ReleaseTitle(tag string) string {
	return "Release " + tag
}

// ReleaseNotes renders the generated placeholder notes; the operator
// annotates the release afterwards via the opened edit page.
func ReleaseNotes(tag string) string {
	return fmt.Sprintf("Automated release %s. Edit this entry to add notes.", tag)
}
