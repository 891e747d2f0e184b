// Command obcfront drives the module front-end from the command line: it
// reads a project manifest or a list of module documents, runs the
// checker pipeline, and reports diagnostics.
package main

import (
	"fmt"
	"os"

	"github.com/obc-lang/obc/cmd/obcfront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
