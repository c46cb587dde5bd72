// Package main provides the CLI entrypoint for docmapper.
//
// docmapper works with entity contracts, Go interfaces mapped to documents:
//   - lint checks contracts against the accessor conventions
//   - gen writes typed wrappers for the contracts of a package
//   - meta check validates a YAML metadata file
//   - doc get/put/delete reads and writes stored documents
package main

import (
	"os"
)

func main() {
	if err := NewRootCommand(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
