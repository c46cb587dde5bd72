package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"docmapper/metadata"
)

func newMetaCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "work with metadata files",
	}

	cmd.AddCommand(newMetaCheckCommand(a))

	return cmd
}

func newMetaCheckCommand(a *app) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "validate a metadata file",
		Long: `
Validates the structure of a YAML metadata file: qualified contract names,
markers on getters only, non-conflicting markers and index definitions.
The file defaults to the configured metadata file.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Metadata
			if len(args) == 1 {
				path = args[0]
			}

			if path == "" {
				return fmt.Errorf("meta check: no metadata file given")
			}

			f, err := metadata.LoadFile(path)
			if err != nil {
				return err
			}

			if dump {
				cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
				cfg.Fdump(a.stdout, f)
			}

			res := metadata.Validate(f)
			printDiagnostics(a.stdout, res)

			if res.HasErrors() {
				return fmt.Errorf("meta check: %d error(s) in %s", len(res.Errors), path)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "print the parsed file")

	return cmd
}
