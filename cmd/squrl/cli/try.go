package cli

import (
	"github.com/arayel/squrl/internal/orchestrator"
	"github.com/spf13/cobra"
)

// newTryCommand implements `try <new-request-options> <send-options>`: a
// one-shot send of an ephemeral request built in-memory, never persisted to
// a collection (spec.md §6.1).
func newTryCommand(newApp func() (*App, error)) *cobra.Command {
	newOpts := &newRequestOptions{protocol: "http", method: "GET"}
	sendOpts := &sendFlags{}

	cmd := &cobra.Command{
		Use:   "try",
		Short: "Build and send a request without saving it to a collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			req, err := newOpts.buildRequest("try")
			if err != nil {
				return err
			}
			global, err := resolveEnv(app, sendOpts.envName)
			if err != nil {
				return err
			}
			resp, sendErr := orchestrator.Send(cmd.Context(), req, nil, global, app.Config, nil, nil)
			printSendResult(cmd, req.Name, resp, req.Console, nil, sendOpts)
			return sendErr
		},
	}
	newOpts.register(cmd)
	sendOpts.register(cmd)
	return cmd
}
