// Package config loads the declarative release configuration: which files
// carry the version, which archives to build, and where to publish.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/relcut/relcut/internal/syncfile"
)

// DefaultPath is the config filename looked up in the working directory.
const DefaultPath = ".relcut.yaml"

const defaultConfigYAML = `# relcut release configuration
version: 1

# Manifest holding the authoritative version field (JSON with a top-level
# "version" key). Read before each release and rewritten with the new value.
manifest: manifest.json

# Additional files carrying the version as embedded text.
targets:
  - path: settings.ini
    kind: comment            # rewrites a "# Version: X.Y.Z" line
  - path: README.md
    kind: download-url       # rewrites .../download/vX.Y.Z/<artifact> links
    artifact: config.zip

# Archive packaging.
archive:
  source: config             # directory whose contents become the zip root
  output_dir: dist
  prefix: config             # produces <prefix>-v<version>.zip
  stable_name: config.zip    # stable alias built from the same source

# Publishing.
publish:
  repo: ""                   # "owner/name"; empty infers from the git remote
  web_url: ""                # repository web URL for the post-publish page
`

// TargetSpec is one version-bearing file entry in the config file.
type TargetSpec struct {
	Path     string `yaml:"path"`
	Kind     string `yaml:"kind"`
	Artifact string `yaml:"artifact,omitempty"`
}

// ArchiveSpec configures artifact packaging.
type ArchiveSpec struct {
	Source     string `yaml:"source"`
	OutputDir  string `yaml:"output_dir"`
	Prefix     string `yaml:"prefix"`
	StableName string `yaml:"stable_name"`
}

// PublishSpec configures the release host.
type PublishSpec struct {
	Repo   string `yaml:"repo,omitempty"`
	WebURL string `yaml:"web_url,omitempty"`
}

// Release is the full parsed configuration.
type Release struct {
	Version  int          `yaml:"version"`
	Manifest string       `yaml:"manifest"`
	Targets  []TargetSpec `yaml:"targets"`
	Archive  ArchiveSpec  `yaml:"archive"`
	Publish  PublishSpec  `yaml:"publish"`
}

// Load reads and validates the config at path.
func Load(path string) (Release, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Release{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var r Release
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Release{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := r.validate(); err != nil {
		return Release{}, fmt.Errorf("config %s: %w", path, err)
	}
	return r, nil
}

func (r Release) validate() error {
	if r.Manifest == "" {
		return fmt.Errorf("manifest path is required")
	}
	if r.Archive.Source == "" {
		return fmt.Errorf("archive.source is required")
	}
	if r.Archive.Prefix == "" {
		return fmt.Errorf("archive.prefix is required")
	}
	for _, t := range r.Targets {
		switch t.Kind {
		case "comment":
		case "download-url":
			if t.Artifact == "" {
				return fmt.Errorf("target %s: download-url targets need an artifact name", t.Path)
			}
		default:
			return fmt.Errorf("target %s: unknown kind %q", t.Path, t.Kind)
		}
	}
	return nil
}

// SyncTargets assembles the full synchronization set: the manifest first
// (structured rewrite), then the configured text targets in declaration
// order.
func (r Release) SyncTargets() []syncfile.Target {
	targets := []syncfile.Target{
		{Path: r.Manifest, Rule: syncfile.ManifestRule{}},
	}
	for _, t := range r.Targets {
		switch t.Kind {
		case "comment":
			targets = append(targets, syncfile.Target{Path: t.Path, Rule: syncfile.CommentRule{}})
		case "download-url":
			targets = append(targets, syncfile.Target{Path: t.Path, Rule: syncfile.DownloadURLRule{Artifact: t.Artifact}})
		}
	}
	return targets
}

// WriteDefault writes the commented default config to path, refusing to
// clobber an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
