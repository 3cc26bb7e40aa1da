package syncfile

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/relcut/relcut/internal/semver"
)

// Target binds a file path to the rule used to rewrite its embedded version.
type Target struct {
	Path string
	Rule Rule
}

// Result records the outcome of synchronizing one target. Applied is false
// when the file was missing or its rule found no version token; neither case
// is fatal, since some targets are optional across configurations.
type Result struct {
	Path    string
	Applied bool
}

// SyncAll rewrites every target to carry version v, in declaration order.
// Each file is read once and written once, so a crash between files leaves
// processed files fully updated and the rest untouched; there are no
// sub-file partial writes. Re-running with the same version is a byte-level
// no-op. Only I/O and rule errors are fatal.
func SyncAll(targets []Target, v semver.Version, logger *slog.Logger) ([]Result, error) {
	results := make([]Result, 0, len(targets))
	for _, t := range targets {
		applied, err := syncOne(t, v, logger)
		if err != nil {
			return results, fmt.Errorf("syncing %s: %w", t.Path, err)
		}
		results = append(results, Result{Path: t.Path, Applied: applied})
	}
	return results, nil
}

func syncOne(t Target, v semver.Version, logger *slog.Logger) (bool, error) {
	content, err := os.ReadFile(t.Path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("target file missing, skipping", "path", t.Path, "rule", t.Rule.Name())
			return false, nil
		}
		return false, err
	}

	out, matched, err := t.Rule.Apply(content, v)
	if err != nil {
		return false, err
	}
	if !matched {
		logger.Warn("no version token found, leaving file untouched", "path", t.Path, "rule", t.Rule.Name())
		return false, nil
	}

	if err := os.WriteFile(t.Path, out, 0o644); err != nil {
		return false, err
	}
	logger.Info("synchronized", "path", t.Path, "version", v.String())
	return true, nil
}
