package cli

import (
	"github.com/arayel/squrl/internal/cliutil"
	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/spf13/cobra"
)

// sendFlags backs the `--hide-content --status-code --duration --headers
// --cookies --console --request-name --env NAME` flag group spec.md §6.1
// attaches to every `send`/`try` invocation.
type sendFlags struct {
	hideContent bool
	statusCode  bool
	duration    bool
	headers     bool
	cookies     bool
	console     bool
	requestName bool
	envName     string
}

func (f *sendFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.hideContent, "hide-content", false, "suppress the response body")
	cmd.Flags().BoolVar(&f.statusCode, "status-code", false, "print the response status")
	cmd.Flags().BoolVar(&f.duration, "duration", false, "print the elapsed time")
	cmd.Flags().BoolVar(&f.headers, "headers", false, "print response headers")
	cmd.Flags().BoolVar(&f.cookies, "cookies", false, "print stored cookies")
	cmd.Flags().BoolVar(&f.console, "console", false, "print pre/post-script console output")
	cmd.Flags().BoolVar(&f.requestName, "request-name", false, "print the request's name")
	cmd.Flags().StringVar(&f.envName, "env", "", "global environment to resolve variables against")
}

func (f *sendFlags) options() cliutil.SendOptions {
	return cliutil.SendOptions{
		HideContent: f.hideContent,
		StatusCode:  f.statusCode,
		Duration:    f.duration,
		Headers:     f.headers,
		Cookies:     f.cookies,
		Console:     f.console,
		RequestName: f.requestName,
		EnvName:     f.envName,
	}
}

// resolveEnv loads the global environment named by envName, if any; a blank
// name means "no global environment" rather than an error.
func resolveEnv(app *App, envName string) (*objectmodel.Environment, error) {
	if envName == "" {
		return nil, nil
	}
	return app.LoadGlobalEnvironment(envName)
}

// printSendResult prints resp via cliutil.PrintResponse using opts' flags.
func printSendResult(cmd *cobra.Command, reqName string, resp *objectmodel.Response, console objectmodel.ConsoleOutput, cookies []objectmodel.Cookie, opts *sendFlags) {
	cliutil.PrintResponse(cmd.OutOrStdout(), reqName, resp, console, cookies, opts.options())
}
