package cli

import (
	"fmt"

	"github.com/arayel/squrl/internal/cliutil"
	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/arayel/squrl/internal/orchestrator"
	"github.com/arayel/squrl/internal/persistence"
	"github.com/spf13/cobra"
)

func newCollectionCommand(newApp func() (*App, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collection",
		Short: "List, create, rename, or send a collection",
	}

	var requestNames bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List collections in the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			names, err := app.ListCollectionNames()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
				if requestNames {
					coll, err := app.LoadCollection(name)
					if err != nil {
						return err
					}
					for _, r := range coll.Requests {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", r.Name)
					}
				}
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&requestNames, "request-names", false, "also list each collection's request names")
	cmd.AddCommand(listCmd)

	var withoutRequestNames bool
	infoCmd := &cobra.Command{
		Use:   "info NAME",
		Short: "Show a collection's summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			coll, err := app.LoadCollection(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "name: %s\n", coll.Name)
			fmt.Fprintf(w, "format: %s\n", coll.Format)
			fmt.Fprintf(w, "folders: %d\n", len(coll.Folders))
			fmt.Fprintf(w, "requests: %d\n", len(coll.Requests))
			if !withoutRequestNames {
				for _, r := range coll.Requests {
					fmt.Fprintf(w, "  %s (%s)\n", r.Name, r.Protocol)
				}
			}
			return nil
		},
	}
	infoCmd.Flags().BoolVar(&withoutRequestNames, "without-request-names", false, "omit the per-request listing")
	cmd.AddCommand(infoCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "new NAME",
		Short: "Create an empty collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			format := objectmodel.CollectionFormat(app.Config.PreferredCollectionFileFormat)
			coll, err := objectmodel.NewCollection(args[0], format)
			if err != nil {
				return err
			}
			return app.SaveCollection(coll)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a collection's file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			coll, err := app.LoadCollection(args[0])
			if err != nil {
				return err
			}
			if app.DryRun {
				app.Log.Infof("dry-run: would delete collection %q", coll.Name)
				return nil
			}
			return persistence.DeleteCollection(coll)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename NAME NEW",
		Short: "Rename a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			coll, err := app.LoadCollection(args[0])
			if err != nil {
				return err
			}
			if err := coll.Rename(args[1]); err != nil {
				return err
			}
			return app.SaveCollection(coll)
		},
	})

	cmd.AddCommand(newCollectionSendCommand(newApp))
	cmd.AddCommand(newCollectionEnvCommand(newApp))

	return cmd
}

// newCollectionSendCommand implements `collection send NAME <send-options>`:
// sending every root-level request in the collection in order, mirroring
// `request send` per-request.
func newCollectionSendCommand(newApp func() (*App, error)) *cobra.Command {
	opts := &sendFlags{}
	cmd := &cobra.Command{
		Use:   "send NAME",
		Short: "Send every root-level request in a collection, in order (folder requests are not sent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			coll, err := app.LoadCollection(args[0])
			if err != nil {
				return err
			}
			global, err := resolveEnv(app, opts.envName)
			if err != nil {
				return err
			}
			for _, req := range coll.Requests {
				resp, sendErr := orchestrator.Send(cmd.Context(), req, coll.SelectedScopedEnvironment(), global, app.Config, nil, coll)
				printSendResult(cmd, req.Name, resp, req.Console, nil, opts)
				if sendErr != nil {
					return sendErr
				}
			}
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

// newCollectionEnvCommand implements
// `collection env NAME {list|create EN|delete EN|select EN|info EN|key EN <key-op>}`.
func newCollectionEnvCommand(newApp func() (*App, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "env NAME {list|create|delete|select|info|key} ...",
		Short: "Manage a collection's scoped environments",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			collName, verb, rest := args[0], args[1], args[2:]
			coll, err := app.LoadCollection(collName)
			if err != nil {
				return err
			}

			switch verb {
			case "list":
				for _, env := range coll.Environments {
					fmt.Fprintln(cmd.OutOrStdout(), env.Name)
				}
				return nil
			case "create":
				if len(rest) != 1 {
					return fmt.Errorf("cli: env create requires an environment name")
				}
				env, err := objectmodel.NewEnvironment(rest[0])
				if err != nil {
					return err
				}
				coll.Environments = append(coll.Environments, env)
				return app.SaveCollection(coll)
			case "delete":
				if len(rest) != 1 {
					return fmt.Errorf("cli: env delete requires an environment name")
				}
				idx := -1
				for i, env := range coll.Environments {
					if env.Name == rest[0] {
						idx = i
						break
					}
				}
				if idx < 0 {
					return fmt.Errorf("cli: environment %q: %w", rest[0], objectmodel.ErrNotFound)
				}
				coll.Environments = append(coll.Environments[:idx:idx], coll.Environments[idx+1:]...)
				return app.SaveCollection(coll)
			case "select":
				if len(rest) != 1 {
					return fmt.Errorf("cli: env select requires an environment name")
				}
				coll.SelectedEnvironment = rest[0]
				return app.SaveCollection(coll)
			case "info":
				if len(rest) != 1 {
					return fmt.Errorf("cli: env info requires an environment name")
				}
				for _, env := range coll.Environments {
					if env.Name == rest[0] {
						return printEnvInfo(cmd, env, false)
					}
				}
				return fmt.Errorf("cli: environment %q: %w", rest[0], objectmodel.ErrNotFound)
			case "key":
				if len(rest) < 2 {
					return fmt.Errorf("cli: env key requires an environment name and a key operation")
				}
				envName, opArgs := rest[0], rest[1:]
				var env *objectmodel.Environment
				for _, e := range coll.Environments {
					if e.Name == envName {
						env = e
						break
					}
				}
				if env == nil {
					return fmt.Errorf("cli: environment %q: %w", envName, objectmodel.ErrNotFound)
				}
				op, err := cliutil.ParseKeyOp(opArgs)
				if err != nil {
					return err
				}
				if err := cliutil.ApplyToEnv(cmd.OutOrStdout(), env.Values, op); err != nil {
					return err
				}
				if op.Verb == "get" {
					return nil
				}
				return app.SaveCollection(coll)
			default:
				return fmt.Errorf("cli: collection env: unknown subcommand %q", verb)
			}
		},
	}
}
