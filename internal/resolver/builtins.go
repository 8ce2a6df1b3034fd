// Package resolver implements the variable substitution engine of spec.md
// §4.3: a single, non-recursive left-to-right pass over `{{NAME}}` tokens,
// resolved through a layered lookup (collection-scoped env, global env, OS
// environment snapshot, builtin generators).
package resolver

import (
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// osEnvSnapshot is populated once, at process startup, from os.Environ.
// original_source takes the same snapshot via a lazy_static IndexMap
// (app/files/environment.rs's OS_ENV_VARS); a snapshot means a process's
// environment variables never change mid-run from the resolver's point of
// view, even if the OS environment is mutated after startup.
var osEnvSnapshot = snapshotOSEnv()

func snapshotOSEnv() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				out[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	return out
}

// builtinNames maps the fixed builtin variable names spec.md §4.3 names to
// their generators. Each Resolver caches the first value it generates for a given
// name so that a single request build observes one consistent NOW/
// TIMESTAMP/UUIDv4/UUIDv7 sample even if the name appears more than once.
var builtinNames = map[string]func() string{
	"NOW":       func() string { return time.Now().Format("2006-01-02T15:04:05-07:00") },
	"TIMESTAMP": func() string { return strconv.FormatInt(time.Now().Unix(), 10) },
	"UUIDv4":    func() string { return uuid.New().String() },
	"UUIDv7": func() string {
		id, err := uuid.NewV7()
		if err != nil {
			return uuid.New().String()
		}
		return id.String()
	},
}
