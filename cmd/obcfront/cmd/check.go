package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/obc-lang/obc/diag"
	"github.com/obc-lang/obc/frontend"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	checkProjectPath string
	checkJSON        bool
	checkQuery       string
	checkSets        []string
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Resolve and type-check a set of module documents",
	Long: `check runs DeclarationPass, TypeResolutionPass, CheckerPass, and
ValidationPass over the given module documents (or the files listed in a
project manifest) and reports every diagnostic found.

Each file is a JSON module document, not Oberon source: obc has no parser
of its own, so this command exercises the front-end directly against the
shape a real parser would build.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkProjectPath, "project", "p", "", "obc.yaml project manifest listing files and preloads")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "emit diagnostics as JSON instead of plain text")
	checkCmd.Flags().StringVar(&checkQuery, "query", "", "gjson path to extract from the JSON diagnostic report (implies --json)")
	checkCmd.Flags().StringArrayVar(&checkSets, "set", nil, "sjson path=value patch applied to every document before decoding")
}

func runCheck(cmd *cobra.Command, args []string) error {
	files := args
	var preloads, searchPaths []string
	if checkProjectPath != "" {
		proj, err := loadProject(checkProjectPath)
		if err != nil {
			return err
		}
		files = append(files, proj.Files...)
		preloads = proj.Preloads
		searchPaths = proj.SearchPaths
	}
	if len(files) == 0 {
		return fmt.Errorf("no files to check: pass file arguments or --project")
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
		source := string(data)
		for _, patch := range checkSets {
			source, err = applySet(source, patch)
			if err != nil {
				return fmt.Errorf("--set %q on %s: %w", patch, path, err)
			}
		}
		if err := f.AddFile(path, source); err != nil {
			return err
		}
	}

	if _, err := f.ParseFiles(files); err != nil {
		return fmt.Errorf("module graph: %w", err)
	}

	return reportDiagnostics(f.Sink())
}

// applySet applies one "path=value" patch (sjson syntax) to a JSON
// document's raw text, letting a caller override a single field of a
// module document from the command line without editing the file.
func applySet(source, patch string) (string, error) {
	path, value, ok := splitSetPatch(patch)
	if !ok {
		return "", fmt.Errorf("expected path=value, got %q", patch)
	}
	return sjson.Set(source, path, value)
}

func splitSetPatch(patch string) (path, value string, ok bool) {
	for i := 0; i < len(patch); i++ {
		if patch[i] == '=' {
			return patch[:i], patch[i+1:], true
		}
	}
	return "", "", false
}

type diagOut struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
}

func reportDiagnostics(sink *diag.Sink) error {
	diags := sink.Diagnostics()

	if !checkJSON && checkQuery == "" {
		if len(diags) == 0 {
			fmt.Println("no diagnostics")
			return nil
		}
		fmt.Println(sink.String())
		return fmt.Errorf("%d diagnostic(s) reported", len(diags))
	}

	out := make([]diagOut, len(diags))
	for i, d := range diags {
		sev := "error"
		if d.Severity == diag.SeverityStructural {
			sev = "structural"
		}
		out[i] = diagOut{
			Kind: string(d.Kind), Message: d.Message,
			File: d.Pos.File, Line: d.Pos.Line, Column: d.Pos.Column,
			Severity: sev,
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return err
	}

	if checkQuery != "" {
		fmt.Println(gjson.GetBytes(data, checkQuery).String())
	} else {
		fmt.Println(string(data))
	}
	if len(diags) > 0 {
		return fmt.Errorf("%d diagnostic(s) reported", len(diags))
	}
	return nil
}
