package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the full squrl command tree (spec.md §6.1). Absent
// a subcommand, the root command's RunE is left nil: cobra prints usage and
// returns, since launching the (out-of-scope) TUI is not this module's
// concern.
func NewRootCommand() *cobra.Command {
	var directory string
	var dryRun bool

	root := &cobra.Command{
		Use:           "squrl",
		Short:         "A scriptable HTTP/WebSocket/gRPC client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&directory, "directory", "d", "", "working directory (defaults to $SQURL_MAIN_DIR or the current directory)")
	root.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "log writes instead of performing them")

	newApp := func() (*App, error) {
		return NewApp(directory, dryRun)
	}

	root.AddCommand(newEnvCommand(newApp))
	root.AddCommand(newCollectionCommand(newApp))
	root.AddCommand(newRequestCommand(newApp))
	root.AddCommand(newTryCommand(newApp))
	root.AddCommand(newManCommand(newApp))
	root.AddCommand(newImportCommand(newApp))

	return root
}
