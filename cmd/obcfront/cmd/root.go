package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "obcfront",
	Short: "obcfront is the front-end toolchain for the module language",
	Long: `obcfront drives the name-resolution and type-checking front-end over a
set of module documents, without a parser of its own: each document is
read as JSON describing a module's declarations, the same shape the
front-end's own units.ParseFunc consumes from any real parser.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("obcfront version %%s\nCommit: %s\n", GitCommit))
}
