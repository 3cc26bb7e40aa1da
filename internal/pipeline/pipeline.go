// Package pipeline sequences a release: precondition check, version
// computation, multi-file synchronization, archive packaging, commit/tag/
// push, remote publication, and operator notification. Steps run strictly
// in order and fail fast. There is deliberately no rollback: a failure after
// files were synchronized but before the commit leaves the working tree
// modified for the operator to inspect or revert.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/relcut/relcut/internal/archive"
	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/gitops"
	"github.com/relcut/relcut/internal/release"
	"github.com/relcut/relcut/internal/semver"
	"github.com/relcut/relcut/internal/syncfile"
)

// ErrDirtyWorkingTree indicates pending changes in the working tree. The
// precondition gate is the sole protection against mixing unrelated
// uncommitted edits into a release commit, so it always fires first and is
// always fatal.
var ErrDirtyWorkingTree = errors.New("working tree has uncommitted changes; commit or stash them first")

// Pipeline holds the injected collaborators and configuration for one or
// more runs. Collaborators are interfaces so the sequencing logic is
// testable without git, network, or a browser.
type Pipeline struct {
	Config   config.Release
	VCS      gitops.VersionControl
	Host     release.Host
	Notifier release.Notifier
	Logger   *slog.Logger
}

// RunResult summarizes a completed or failed run. Version and archive paths
// are computed once and carried here rather than in any shared variable.
type RunResult struct {
	OldVersion string
	NewVersion string
	Tag        string
	Synced     []syncfile.Result
	Archives   []string
	State      State
	// DryRun is set when a test-suffixed version suppressed the
	// commit/tag/publish steps.
	DryRun bool
}

// Run executes the full pipeline for the given intent. On error the
// returned RunResult still reports how far the run got.
func (p *Pipeline) Run(intent semver.Intent) (RunResult, error) {
	res := RunResult{State: StateIdle}

	// Precondition: refuse to run on a dirty tree, before any side effect.
	res.State = StatePrecondition
	clean, err := p.VCS.StatusIsClean()
	if err != nil {
		return p.fail(res, err)
	}
	if !clean {
		return p.fail(res, ErrDirtyWorkingTree)
	}

	// Version computation. A literal intent never consults the manifest.
	version, oldVersion, err := p.computeVersion(intent)
	if err != nil {
		return p.fail(res, err)
	}
	res.State = StateVersionComputed
	res.OldVersion = oldVersion
	res.NewVersion = version.String()
	res.Tag = version.Tag()
	res.DryRun = version.IsTest()
	p.Logger.Info("version computed", "old", oldVersion, "new", res.NewVersion)

	// File synchronization, manifest included.
	res.Synced, err = syncfile.SyncAll(p.Config.SyncTargets(), version, p.Logger)
	if err != nil {
		return p.fail(res, err)
	}
	res.State = StateFilesSynced

	// Archive packaging.
	res.Archives, err = p.buildArchives(version)
	if err != nil {
		return p.fail(res, err)
	}
	res.State = StateArchivesBuilt

	if res.DryRun {
		p.Logger.Info("test version, skipping commit, tag, and publish", "version", res.NewVersion)
		res.State = StateDone
		return res, nil
	}

	// Commit, tag, push.
	if err := p.VCS.CommitAll("release " + res.Tag); err != nil {
		return p.fail(res, err)
	}
	if err := p.VCS.Tag(res.Tag); err != nil {
		return p.fail(res, err)
	}
	if err := p.VCS.Push(true); err != nil {
		return p.fail(res, err)
	}
	res.State = StateTagged
	p.Logger.Info("committed and tagged", "tag", res.Tag)

	// Remote publication. Local mutations already happened; a failure here
	// surfaces as-is and the operator resolves it manually.
	stdout, _, err := p.Host.CreateRelease(res.Tag, release.ReleaseTitle(res.Tag), release.ReleaseNotes(res.Tag), res.Archives)
	if err != nil {
		return p.fail(res, err)
	}
	res.State = StatePublished
	p.Logger.Info("published", "tag", res.Tag, "output", stdout)

	// Notification is cosmetic: log failures, never escalate.
	if p.Notifier != nil {
		if err := p.Notifier.OpenReleasePage(res.Tag); err != nil {
			p.Logger.Warn("could not open release page", "error", err)
		}
	}
	res.State = StateNotified

	res.State = StateDone
	return res, nil
}

// Plan computes the version a run would produce and the files and archives
// it would touch, writing nothing.
func (p *Pipeline) Plan(intent semver.Intent) (RunResult, error) {
	res := RunResult{State: StateIdle}
	version, oldVersion, err := p.computeVersion(intent)
	if err != nil {
		return p.fail(res, err)
	}
	res.State = StateVersionComputed
	res.OldVersion = oldVersion
	res.NewVersion = version.String()
	res.Tag = version.Tag()
	res.DryRun = version.IsTest()

	for _, t := range p.Config.SyncTargets() {
		_, err := os.Stat(t.Path)
		res.Synced = append(res.Synced, syncfile.Result{Path: t.Path, Applied: err == nil})
	}
	res.Archives = p.archivePaths(version)
	res.State = StateDone
	return res, nil
}

func (p *Pipeline) fail(res RunResult, err error) (RunResult, error) {
	res.State = StateFailed
	return res, err
}

func (p *Pipeline) computeVersion(intent semver.Intent) (v semver.Version, old string, err error) {
	if intent.Kind == semver.KindLiteral {
		return semver.Bump(semver.Version{}, intent), "", nil
	}
	current, err := p.readManifestVersion()
	if err != nil {
		return semver.Version{}, "", err
	}
	return semver.Bump(current, intent), current.String(), nil
}

func (p *Pipeline) readManifestVersion() (semver.Version, error) {
	data, err := os.ReadFile(p.Config.Manifest)
	if err != nil {
		return semver.Version{}, fmt.Errorf("reading manifest %s: %w", p.Config.Manifest, err)
	}
	field := gjson.GetBytes(data, "version")
	if !field.Exists() {
		return semver.Version{}, fmt.Errorf("manifest %s has no version field", p.Config.Manifest)
	}
	v, err := semver.Parse(field.String())
	if err != nil {
		return semver.Version{}, fmt.Errorf("manifest %s: %w", p.Config.Manifest, err)
	}
	return v, nil
}

func (p *Pipeline) archivePaths(v semver.Version) []string {
	a := p.Config.Archive
	paths := []string{
		filepath.Join(a.OutputDir, archive.VersionedName(a.Prefix, v.String())),
	}
	if a.StableName != "" {
		paths = append(paths, filepath.Join(a.OutputDir, archive.StableName(a.StableName)))
	}
	return paths
}

func (p *Pipeline) buildArchives(v semver.Version) ([]string, error) {
	paths := p.archivePaths(v)
	for _, out := range paths {
		if err := archive.Build(archive.Spec{OutputPath: out, SourceRoot: p.Config.Archive.Source}); err != nil {
			return nil, err
		}
		p.Logger.Info("archive built", "path", out)
	}
	return paths, nil
}
