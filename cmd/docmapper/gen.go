package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docmapper/internal/gen"
)

func newGenCommand(a *app) *cobra.Command {
	var (
		dir        string
		config     = gen.DefaultGeneratorConfig()
		noComments bool
		skipLint   bool
	)

	cmd := &cobra.Command{
		Use:   "gen [packages]",
		Short: "generate typed wrappers for entity contracts",
		Long: `
Writes one file per package (default ".") with a wrapper struct per entity
contract, a Register function per contract and RegisterAll. Contracts are
linted first; generation stops on lint errors.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := loadGraph(a, dir, args)
			if err != nil {
				return err
			}

			if !skipLint {
				res, err := runLint(a, graph)
				if err != nil {
					return err
				}

				if res.HasErrors() {
					printDiagnostics(a.stderr, res)
					return fmt.Errorf("gen: contracts have %d lint error(s)", len(res.Errors))
				}
			}

			config.GenerateComments = !noComments

			files, err := gen.NewGenerator(config).Generate(graph)
			if err != nil {
				return err
			}

			written, err := gen.WriteFiles(files, config.OutputDir)
			if err != nil {
				return err
			}

			for _, path := range written {
				a.log.Info("generated", zap.String("file", path))
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&dir, "dir", "", "directory the package patterns are resolved against")
	flags.StringVarP(&config.Filename, "output", "o", gen.DefaultFilename, "name of the generated file")
	flags.StringVar(&config.OutputDir, "output-dir", "", "write files here instead of the package directories")
	flags.BoolVar(&noComments, "no-comments", false, "omit doc comments on the wrappers")
	flags.BoolVar(&skipLint, "skip-lint", false, "generate without linting the contracts first")

	return cmd
}
