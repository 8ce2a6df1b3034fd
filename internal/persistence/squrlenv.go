package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arayel/squrl/internal/objectmodel"
)

// companionEnvFile is the decoded shape of squrl-env.json (spec.md §6.2):
//
//	{ "environments": [ { "name": ..., "values": {...} } ], "selectedEnvironment": "..." }
type companionEnvEntry struct {
	Name   string                 `json:"name"`
	Values *objectmodel.EnvValues `json:"values"`
}

type companionEnvFile struct {
	Environments         []companionEnvEntry `json:"environments"`
	SelectedEnvironment  string              `json:"selectedEnvironment"`
}

// CompanionEnvFileName is the fixed basename fsnotify watches for, per
// spec.md §3 ("A companion squrl-env.json may be watched").
const CompanionEnvFileName = "squrl-env.json"

// LoadCompanionEnv reads "<dir>/squrl-env.json" and returns the scoped
// environments and selected-environment name it describes. A missing file
// is not an error: it returns an empty slice and "".
func LoadCompanionEnv(dir string) ([]*objectmodel.Environment, string, error) {
	path := filepath.Join(dir, CompanionEnvFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("persistence: read %q: %w", path, err)
	}

	var decoded companionEnvFile
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, "", fmt.Errorf("persistence: parse %q: %w", path, err)
	}

	envs := make([]*objectmodel.Environment, 0, len(decoded.Environments))
	for _, e := range decoded.Environments {
		values := e.Values
		if values == nil {
			values = objectmodel.NewEnvValues()
		}
		envs = append(envs, &objectmodel.Environment{Name: e.Name, Values: values})
	}
	return envs, decoded.SelectedEnvironment, nil
}

// SaveCompanionEnv writes envs and selected back to "<dir>/squrl-env.json"
// via the atomic WriteFile helper.
func SaveCompanionEnv(dir string, envs []*objectmodel.Environment, selected string) error {
	out := companionEnvFile{SelectedEnvironment: selected}
	for _, e := range envs {
		out.Environments = append(out.Environments, companionEnvEntry{Name: e.Name, Values: e.Values})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("persistence: serialize %q: %w", CompanionEnvFileName, err)
	}
	return WriteFile(filepath.Join(dir, CompanionEnvFileName), data, 0o644)
}
