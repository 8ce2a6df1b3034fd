// Package cli wires the cobra command tree described by spec.md §6.1 onto
// the engine packages (internal/objectmodel, internal/persistence,
// internal/builder, internal/orchestrator). Each subcommand loads just the
// collection/environment it needs, mutates it, and saves it back — there is
// no long-lived daemon process behind the CLI (spec.md §5: "no exception
// surfaces to the caller" — here that means a clean stderr message and exit
// code 1, not a stack trace).
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arayel/squrl/internal/config"
	"github.com/arayel/squrl/internal/logging"
	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/arayel/squrl/internal/persistence"
)

// App holds the process-wide state every subcommand needs: the working
// directory, the dry-run flag, and the loaded config. It has no mutable
// shared state of its own beyond what's loaded fresh per invocation — the
// CLI is a one-shot process, unlike the (out-of-scope) TUI's long-lived
// session.
type App struct {
	Directory string
	DryRun    bool
	Config    *config.Config
	Log       *logging.Logger
}

// NewApp resolves directory (flag value, SQURL_MAIN_DIR, or cwd) and loads
// squrl.toml from it if present, falling back to defaults otherwise.
func NewApp(directory string, dryRun bool) (*App, error) {
	if directory == "" {
		directory = os.Getenv("SQURL_MAIN_DIR")
	}
	if directory == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cli: resolve working directory: %w", err)
		}
		directory = cwd
	}

	cfgPath := filepath.Join(directory, "squrl.toml")
	var cfg *config.Config
	if _, err := os.Stat(cfgPath); err == nil {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("cli: load config: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	return &App{
		Directory: directory,
		DryRun:    dryRun,
		Config:    cfg,
		Log:       logging.New(logging.LevelInfo),
	}, nil
}

// collectionExtensions lists the extensions FindCollectionPath tries, in
// the order spec.md §6.2 lists the supported collection formats.
var collectionExtensions = []string{".json", ".yaml", ".yml", ".http"}

// FindCollectionPath locates the on-disk file backing the collection named
// name inside a.Directory, trying each supported extension in turn.
func (a *App) FindCollectionPath(name string) (string, error) {
	for _, ext := range collectionExtensions {
		candidate := filepath.Join(a.Directory, name+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("cli: collection %q: %w", name, objectmodel.ErrNotFound)
}

// LoadCollection locates and parses the collection named name.
func (a *App) LoadCollection(name string) (*objectmodel.Collection, error) {
	path, err := a.FindCollectionPath(name)
	if err != nil {
		return nil, err
	}
	return persistence.LoadCollection(path)
}

// SaveCollection writes coll back to disk, honoring DryRun (spec.md §4.1 "a
// global dry-run flag short-circuits every write (still logs)").
func (a *App) SaveCollection(coll *objectmodel.Collection) error {
	if a.DryRun {
		a.Log.Infof("dry-run: would save collection %q", coll.Name)
		return nil
	}
	return persistence.SaveCollection(coll, a.Directory, a.Config)
}

// ListCollectionNames scans a.Directory for collection files and returns
// their names (the basename without its extension), deduplicated.
func (a *App) ListCollectionNames() ([]string, error) {
	entries, err := os.ReadDir(a.Directory)
	if err != nil {
		return nil, fmt.Errorf("cli: list collections in %q: %w", a.Directory, err)
	}
	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		base := strings.TrimSuffix(entry.Name(), ext)
		ok := false
		for _, e := range collectionExtensions {
			if e == ext {
				ok = true
				break
			}
		}
		if !ok || seen[base] {
			continue
		}
		seen[base] = true
		names = append(names, base)
	}
	return names, nil
}

// LoadGlobalEnvironment loads the `.env.<name>` file from a.Directory.
func (a *App) LoadGlobalEnvironment(name string) (*objectmodel.Environment, error) {
	path := filepath.Join(a.Directory, ".env."+name)
	return persistence.LoadEnvFile(path, name)
}

// SaveGlobalEnvironment writes env back to its `.env.<name>` file.
func (a *App) SaveGlobalEnvironment(env *objectmodel.Environment) error {
	if a.DryRun {
		a.Log.Infof("dry-run: would save environment %q", env.Name)
		return nil
	}
	if env.FilePath == "" {
		env.FilePath = filepath.Join(a.Directory, ".env."+env.Name)
	}
	return persistence.SaveEnvFile(env)
}
