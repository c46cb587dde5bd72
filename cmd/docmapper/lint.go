package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docmapper/internal/analyze"
	"docmapper/internal/diagnostic"
	"docmapper/internal/lint"
)

func newLintCommand(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "lint [packages]",
		Short: "check entity contracts against the accessor conventions",
		Long: `
Loads the packages (default ".") and reports every entity contract method
that the schema compiler would reject at run time. Markers from the
metadata file are taken into account.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := loadGraph(a, dir, args)
			if err != nil {
				return err
			}

			res, err := runLint(a, graph)
			if err != nil {
				return err
			}

			printDiagnostics(a.stdout, res)

			if res.HasErrors() {
				return fmt.Errorf("lint: %d error(s)", len(res.Errors))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory the package patterns are resolved against")

	return cmd
}

func loadGraph(a *app, dir string, patterns []string) (*analyze.TypeGraph, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	a.log.Debug("loading packages", zap.Strings("patterns", patterns), zap.String("dir", dir))

	return analyze.NewAnalyzer().WithDir(dir).LoadPackages(patterns...)
}

func runLint(a *app, graph *analyze.TypeGraph) (*diagnostic.Diagnostics, error) {
	md, err := a.metadataFile()
	if err != nil {
		return nil, err
	}

	res := lint.Check(graph, md)
	a.log.Debug("lint done",
		zap.Int("errors", len(res.Errors)),
		zap.Int("warnings", len(res.Warnings)))

	return res, nil
}

func printDiagnostics(w io.Writer, res *diagnostic.Diagnostics) {
	all := res.All()
	if len(all) == 0 {
		fmt.Fprintln(w, "no findings")
		return
	}

	for _, d := range all {
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
	}
}
