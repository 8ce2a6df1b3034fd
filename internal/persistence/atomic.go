// Package persistence reads and writes squrl's on-disk artifacts:
// collection files (JSON/YAML/.http), environment sidecar files, and the
// squrl-env.json watch target. Every write goes through WriteFile, which
// writes to a sibling temp file and renames it into place so a reader never
// observes a partially-written file (spec.md §8 "atomic writes never
// observe partial content").
package persistence

import (
	"fmt"
	"os"
	"path/filepath"
)

// DryRun, when true, makes WriteFile a no-op, matching the CLI's --dry-run
// flag (spec.md §6.1). It mirrors the teacher's ARGS.should_save guard from
// original_source's save_collection_to_file/save_environment_to_file.
var DryRun = false

// WriteFile writes data to path by first writing it to "<path>_" in the
// same directory, flushing it, then renaming it over path. The rename is
// atomic on any POSIX filesystem the destination and temp file share.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if DryRun {
		return nil
	}

	tempPath := path + "_"
	if err := os.WriteFile(tempPath, data, perm); err != nil {
		return fmt.Errorf("persistence: write temp file %q: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("persistence: rename %q to %q: %w", tempPath, path, err)
	}
	return nil
}

// EnsureDir creates dir (and any missing parents) if it does not already
// exist.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persistence: mkdir %q: %w", dir, err)
	}
	return nil
}

// DefaultCollectionPath returns the path a newly-created ephemeral
// collection is assigned on its first save: "<dir>/<name>.<ext>", where ext
// is "json" or "yaml" per the process's preferred collection file format
// (spec.md §4.1 "auto-assign a file path for ephemeral collections on
// first save").
func DefaultCollectionPath(dir, name, format string) string {
	ext := "json"
	if format == "yaml" {
		ext = "yaml"
	}
	return filepath.Join(dir, name+"."+ext)
}
