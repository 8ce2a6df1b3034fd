// Command squrl is a scriptable HTTP/WebSocket/gRPC client: a CLI over the
// same request lifecycle engine a terminal UI would drive (spec.md §6.1).
package main

import (
	"fmt"
	"os"

	"github.com/arayel/squrl/cmd/squrl/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
