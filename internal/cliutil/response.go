package cliutil

import (
	"fmt"
	"io"

	"github.com/arayel/squrl/internal/objectmodel"
)

// SendOptions mirrors the `send`/`try` boolean flags of spec.md §6.1: each
// one opts a section of the response into the printed output. HideContent
// suppresses the body regardless of the others.
type SendOptions struct {
	HideContent bool
	StatusCode  bool
	Duration    bool
	Headers     bool
	Cookies     bool
	Console     bool
	RequestName bool
	EnvName     string
}

// PrintResponse writes resp to w according to opts, and reqName/console/
// cookies supplied by the caller (the orchestrator-side state PrintResponse
// itself has no access to). It never returns an error: formatting failures
// are not part of the CLI's exit-code contract (spec.md §6.1 "exit 0 on
// success; 1 on any enumerated error" — printing is not an enumerated
// error).
func PrintResponse(w io.Writer, reqName string, resp *objectmodel.Response, console objectmodel.ConsoleOutput, cookies []objectmodel.Cookie, opts SendOptions) {
	if opts.RequestName && reqName != "" {
		fmt.Fprintf(w, "request: %s\n", reqName)
	}
	if opts.EnvName != "" {
		fmt.Fprintf(w, "env: %s\n", opts.EnvName)
	}
	if resp == nil {
		fmt.Fprintln(w, "status: (no response)")
		return
	}
	if opts.StatusCode {
		fmt.Fprintf(w, "status: %s\n", resp.StatusDisplay)
	}
	if opts.Duration {
		fmt.Fprintf(w, "duration: %s\n", resp.Duration)
	}
	if opts.Headers {
		for _, kv := range resp.Headers {
			fmt.Fprintf(w, "header: %s: %s\n", kv.Key, kv.Value)
		}
	}
	if opts.Cookies {
		for _, c := range cookies {
			fmt.Fprintf(w, "cookie: %s=%s\n", c.Name, c.Value)
		}
	}
	if opts.Console {
		if console.Pre != "" {
			fmt.Fprintf(w, "console (pre): %s\n", console.Pre)
		}
		if console.Post != "" {
			fmt.Fprintf(w, "console (post): %s\n", console.Post)
		}
	}
	if resp.Error != "" {
		fmt.Fprintf(w, "error: %s\n", resp.Error)
		return
	}
	if !opts.HideContent {
		if resp.IsImage {
			fmt.Fprintf(w, "<binary image body, %d bytes>\n", len(resp.RawBody))
			return
		}
		fmt.Fprintln(w, resp.Body)
	}
}
