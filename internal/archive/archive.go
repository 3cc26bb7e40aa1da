// Package archive packages a source directory into a zip artifact. The
// directory's contents become the archive root: the source directory itself
// never appears as a path component inside the archive.
package archive

import (
	"archive/zip"
	"compress/flate"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrSourceNotFound indicates the source root to package does not exist.
var ErrSourceNotFound = errors.New("archive source not found")

// Spec describes one artifact to build. Multiple specs may share a
// SourceRoot to produce the same content under different output names.
type Spec struct {
	OutputPath string
	SourceRoot string
}

// Build walks spec.SourceRoot and writes a zip to spec.OutputPath, creating
// parent directories as needed. Regular files and empty directories are
// entered with paths relative to the source root; symlinks and file metadata
// are not preserved, only byte content and relative paths. Compression is
// best-effort maximum; it affects size, never content. Build returns only
// after the archive is fully flushed and closed.
func Build(spec Spec) (err error) {
	info, statErr := os.Stat(spec.SourceRoot)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, spec.SourceRoot)
		}
		return statErr
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrSourceNotFound, spec.SourceRoot)
	}

	if err := os.MkdirAll(filepath.Dir(spec.OutputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	out, err := os.Create(spec.OutputPath)
	if err != nil {
		return fmt.Errorf("opening archive output: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing archive output: %w", closeErr)
		}
	}()

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	walkErr := filepath.WalkDir(spec.SourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(spec.SourceRoot, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)

		if d.IsDir() {
			empty, err := isEmptyDir(path)
			if err != nil {
				return err
			}
			if empty {
				if _, err := zw.Create(name + "/"); err != nil {
					return err
				}
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, copyErr := io.Copy(w, f)
		f.Close()
		return copyErr
	})
	if walkErr != nil {
		zw.Close()
		return fmt.Errorf("packaging %s: %w", spec.SourceRoot, walkErr)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return nil
}

// List returns the entry names inside the zip at path, sorted order not
// guaranteed. Directory entries keep their trailing slash.
func List(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// VersionedName renders the conventional artifact filename for a version,
// "<prefix>-v<version>.zip".
func VersionedName(prefix, version string) string {
	return prefix + "-v" + version + ".zip"
}

// StableName renders the fixed alias filename, "<name>.zip" unless name
// already carries the extension.
func StableName(name string) string {
	if strings.HasSuffix(name, ".zip") {
		return name
	}
	return name + ".zip"
}

func isEmptyDir(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}
