// Package gitops wraps the version-control operations the release pipeline
// needs. Git is treated as a black box reached through the git binary; each
// call captures stderr so failures surface the underlying git message.
package gitops

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// VersionControl is the capability set the pipeline requires from the VCS.
type VersionControl interface {
	// StatusIsClean reports whether the working tree has no pending changes.
	StatusIsClean() (bool, error)
	// CommitAll stages every working-tree change and commits it.
	CommitAll(message string) error
	// Tag creates a lightweight tag at HEAD.
	Tag(name string) error
	// Push pushes the current branch, and tags too when includeTags is set.
	Push(includeTags bool) error
}

// Git runs git commands in Dir (the process working directory when empty).
type Git struct {
	Dir string
}

var _ VersionControl = (*Git)(nil)

func (g *Git) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %v, detail: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// StatusIsClean parses `git status --porcelain`; any output means dirt.
func (g *Git) StatusIsClean() (bool, error) {
	out, err := g.run("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "", nil
}

func (g *Git) CommitAll(message string) error {
	if _, err := g.run("add", "-A"); err != nil {
		return err
	}
	_, err := g.run("commit", "-m", message)
	return err
}

func (g *Git) Tag(name string) error {
	_, err := g.run("tag", name)
	return err
}

func (g *Git) Push(includeTags bool) error {
	if _, err := g.run("push"); err != nil {
		return err
	}
	if includeTags {
		if _, err := g.run("push", "--tags"); err != nil {
			return err
		}
	}
	return nil
}

// CheckAvailable verifies the git binary is on PATH.
func CheckAvailable() error {
	if err := exec.Command("git", "--version").Run(); err != nil {
		return fmt.Errorf("git is not available on the system")
	}
	return nil
}
