package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arayel/squrl/internal/config"
	"github.com/arayel/squrl/internal/objectmodel"
	"gopkg.in/yaml.v3"
)

// LoadCollection reads the collection file at path, dispatching on its
// extension (spec.md §6.2: ".json", ".yaml"/".yml", or ".http"). The
// returned Collection's Path and Format fields are set to reflect where it
// was loaded from.
func LoadCollection(path string) (*objectmodel.Collection, error) {
	format, err := formatFromExtension(path)
	if err != nil {
		return nil, err
	}

	if format == objectmodel.FormatHTTP {
		return LoadHTTPCollection(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("persistence: read collection %q: %w", path, err)
	}

	var coll objectmodel.Collection
	switch format {
	case objectmodel.FormatJSON:
		if err := json.Unmarshal(data, &coll); err != nil {
			return nil, fmt.Errorf("persistence: parse JSON collection %q: %w", path, err)
		}
	case objectmodel.FormatYAML:
		if err := yaml.Unmarshal(data, &coll); err != nil {
			return nil, fmt.Errorf("persistence: parse YAML collection %q: %w", path, err)
		}
	}
	coll.Path = path
	coll.Format = format
	return &coll, nil
}

// SaveCollection writes coll back to disk in its own Format. If coll.Path
// is empty (an ephemeral, never-yet-saved collection), a path is first
// assigned under dir using cfg's preferred collection file format (spec.md
// §4.1 "auto-assign a file path for ephemeral collections on first save").
func SaveCollection(coll *objectmodel.Collection, dir string, cfg *config.Config) error {
	coll.Lock()
	defer coll.Unlock()

	if coll.Path == "" {
		coll.Format = objectmodel.CollectionFormat(cfg.PreferredCollectionFileFormat)
		coll.Path = DefaultCollectionPath(dir, coll.Name, cfg.PreferredCollectionFileFormat)
	}

	if coll.Format == objectmodel.FormatHTTP {
		return saveHTTPCollectionLocked(coll)
	}

	var data []byte
	var err error
	switch coll.Format {
	case objectmodel.FormatJSON:
		data, err = json.MarshalIndent(coll, "", "  ")
	case objectmodel.FormatYAML:
		data, err = yaml.Marshal(coll)
	default:
		return fmt.Errorf("persistence: collection %q: %w", coll.Name, ErrUnsupportedFormat)
	}
	if err != nil {
		return fmt.Errorf("persistence: serialize collection %q: %w", coll.Name, err)
	}

	if err := EnsureDir(filepath.Dir(coll.Path)); err != nil {
		return err
	}
	return WriteFile(coll.Path, data, 0o644)
}

// DeleteCollection removes the collection's file from disk.
func DeleteCollection(coll *objectmodel.Collection) error {
	if DryRun {
		return nil
	}
	coll.RLock()
	path := coll.Path
	coll.RUnlock()
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("persistence: delete collection file %q: %w", path, err)
	}
	return nil
}

func formatFromExtension(path string) (objectmodel.CollectionFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return objectmodel.FormatJSON, nil
	case ".yaml", ".yml":
		return objectmodel.FormatYAML, nil
	case ".http":
		return objectmodel.FormatHTTP, nil
	default:
		return "", fmt.Errorf("persistence: %q: %w", path, ErrUnsupportedFormat)
	}
}
