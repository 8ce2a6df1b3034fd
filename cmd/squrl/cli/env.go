package cli

import (
	"fmt"
	"os"

	"github.com/arayel/squrl/internal/cliutil"
	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/spf13/cobra"
)

// newEnvCommand implements `env <name> info [--os-vars]` and
// `env <name> key <key-op>` (spec.md §6.1). The environment name is a
// positional argument rather than a cobra subcommand name (it's
// user-defined, not part of the static grammar), so this command dispatches
// on its own remaining args instead of registering per-name children.
func newEnvCommand(newApp func() (*App, error)) *cobra.Command {
	var osVars bool

	cmd := &cobra.Command{
		Use:   "env NAME {info|key} ...",
		Short: "Inspect or edit a global environment file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			name, verb, rest := args[0], args[1], args[2:]

			env, err := app.LoadGlobalEnvironment(name)
			if err != nil {
				return err
			}

			switch verb {
			case "info":
				return printEnvInfo(cmd, env, osVars)
			case "key":
				op, err := cliutil.ParseKeyOp(rest)
				if err != nil {
					return err
				}
				if err := cliutil.ApplyToEnv(cmd.OutOrStdout(), env.Values, op); err != nil {
					return err
				}
				if op.Verb == "get" {
					return nil
				}
				return app.SaveGlobalEnvironment(env)
			default:
				return fmt.Errorf("cli: env: unknown subcommand %q", verb)
			}
		},
	}
	cmd.Flags().BoolVar(&osVars, "os-vars", false, "also list OS environment variables visible to variable resolution")
	return cmd
}

// printEnvInfo prints the environment's name, key count, and (with
// --os-vars) the OS environment variables visible to variable resolution
// (spec.md §4.3's OS-env fallback tier).
func printEnvInfo(cmd *cobra.Command, env *objectmodel.Environment, osVars bool) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "name: %s\n", env.Name)
	fmt.Fprintf(w, "keys: %d\n", env.Values.Len())
	for _, k := range env.Values.Keys() {
		v, _ := env.Values.Get(k)
		fmt.Fprintf(w, "  %s=%s\n", k, v)
	}
	if osVars {
		fmt.Fprintln(w, "os vars:")
		for _, kv := range os.Environ() {
			fmt.Fprintf(w, "  %s\n", kv)
		}
	}
	return nil
}
