package cmd

import (
	"fmt"
	"os"

	"github.com/obc-lang/obc/frontend"
	"github.com/spf13/cobra"
)

var unitsProjectPath string

var unitsCmd = &cobra.Command{
	Use:   "units [files...]",
	Short: "Resolve a module import graph and print its initialization order",
	Long: `units registers every given module document (or the files listed in a
project manifest) against the registry, resolves the transitive IMPORT
closure, and prints the modules in the reverse topological order the
checker would run its passes in — without printing diagnostics.`,
	RunE: runUnits,
}

func init() {
	rootCmd.AddCommand(unitsCmd)
	unitsCmd.Flags().StringVarP(&unitsProjectPath, "project", "p", "", "obc.yaml project manifest listing files and preloads")
}

func runUnits(cmd *cobra.Command, args []string) error {
	files := args
	var preloads, searchPaths []string
	if unitsProjectPath != "" {
		proj, err := loadProject(unitsProjectPath)
		if err != nil {
			return err
		}
		files = append(files, proj.Files...)
		preloads = proj.Preloads
		searchPaths = proj.SearchPaths
	}
	if len(files) == 0 {
		return fmt.Errorf("no files to resolve: pass file arguments or --project")
	}

	f := frontend.New(parseDocument, searchPaths)
	for _, name := range preloads {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("reading preload %s: %w", name, err)
		}
		if err := f.AddPreload(name, string(data)); err != nil {
			return fmt.Errorf("preload %s: %w", name, err)
		}
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if err := f.AddFile(path, string(data)); err != nil {
			return err
		}
	}

	if _, err := f.ParseFiles(files); err != nil {
		return fmt.Errorf("module graph: %w", err)
	}

	for i, mod := range f.GetModules() {
		fmt.Printf("%d: %s\n", i+1, mod.Name)
	}
	return nil
}
