package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newImportCommand implements `import {postman|postman-env|openapi|http-file|curl} PATH ...`.
//
// None of the source formats have a grounded Go parser anywhere in the
// example corpus (no Postman/OpenAPI/curl/http-file reader appears in the
// teacher or the rest of the pack), so each subcommand here accepts its
// documented flags and fails clearly rather than inventing a parser with no
// corpus basis.
func newImportCommand(newApp func() (*App, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import requests or environments from another tool's export format",
	}

	notImplemented := func(format string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("cli: import %s: not implemented", format)
		}
	}

	postmanCmd := &cobra.Command{
		Use:   "postman PATH",
		Short: "Import a Postman collection export",
		Args:  cobra.ExactArgs(1),
		RunE:  notImplemented("postman"),
	}
	postmanCmd.Flags().Int("max-depth", 0, "maximum folder nesting depth to import")
	cmd.AddCommand(postmanCmd)

	postmanEnvCmd := &cobra.Command{
		Use:   "postman-env PATH",
		Short: "Import a Postman environment export",
		Args:  cobra.ExactArgs(1),
		RunE:  notImplemented("postman-env"),
	}
	postmanEnvCmd.Flags().Bool("force-uppercase-keys", false, "uppercase every imported key")
	postmanEnvCmd.Flags().Bool("use-disabled", false, "import keys marked disabled in the source file")
	cmd.AddCommand(postmanEnvCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "openapi PATH",
		Short: "Import an OpenAPI document as a collection",
		Args:  cobra.ExactArgs(1),
		RunE:  notImplemented("openapi"),
	})

	httpFileCmd := &cobra.Command{
		Use:   "http-file PATH",
		Short: "Import a .http request file",
		Args:  cobra.ExactArgs(1),
		RunE:  notImplemented("http-file"),
	}
	httpFileCmd.Flags().Bool("recursive", false, "walk PATH recursively")
	httpFileCmd.Flags().Int("max-depth", 0, "maximum recursion depth")
	httpFileCmd.Flags().String("collection-name", "", "name of the collection to import into")
	cmd.AddCommand(httpFileCmd)

	curlCmd := &cobra.Command{
		Use:   "curl PATH",
		Short: "Import a file of curl commands",
		Args:  cobra.ExactArgs(1),
		RunE:  notImplemented("curl"),
	}
	curlCmd.Flags().String("collection-name", "", "name of the collection to import into")
	curlCmd.MarkFlagRequired("collection-name")
	curlCmd.Flags().String("request-name", "", "name for the imported request")
	curlCmd.Flags().Bool("recursive", false, "walk PATH recursively")
	curlCmd.Flags().Int("max-depth", 0, "maximum recursion depth")
	cmd.AddCommand(curlCmd)

	return cmd
}
