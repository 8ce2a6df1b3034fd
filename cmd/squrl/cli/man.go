package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// newManCommand implements `man [--output-directory DIR]`, generating a man
// page per command tree node via cobra's bundled doc generator.
func newManCommand(newApp func() (*App, error)) *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "man",
		Short: "Generate man pages for this command tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir == "" {
				outputDir = "."
			}
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return err
			}
			header := &doc.GenManHeader{
				Title:   "SQURL",
				Section: "1",
			}
			return doc.GenManTree(cmd.Root(), header, outputDir)
		},
	}
	cmd.Flags().StringVar(&outputDir, "output-directory", "", "directory to write man pages into (default: current directory)")
	return cmd
}
