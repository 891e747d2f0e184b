package cmd

import (
	"fmt"
	"os"

	"github.com/obc-lang/obc/ast"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Decode a module document and print its declaration summary",
	Long: `parse reads a single module document (the same JSON document that
"check" reads) and prints the module it decodes to, without running any of the
check passes. Use "check" to also resolve names and type-check it.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	mod, errs := parseDocument(args[0], string(data))
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("decoding %s failed with %d error(s)", args[0], len(errs))
	}
	dumpModule(mod)
	return nil
}

func dumpModule(mod *ast.Module) {
	fmt.Printf("MODULE %s\n", mod.Name)
	for _, imp := range mod.Imports {
		fmt.Printf("  IMPORT %s := %s\n", imp.Alias, imp.TargetPath)
	}
	for _, c := range mod.Consts {
		fmt.Printf("  CONST %s: %s\n", c.Name, c.Type)
	}
	for _, v := range mod.Vars {
		fmt.Printf("  VAR %s: %s (%s)\n", v.Name, v.Type, v.Visibility)
	}
	fmt.Printf("  BODY: %d statement(s)\n", len(mod.Body))
}
