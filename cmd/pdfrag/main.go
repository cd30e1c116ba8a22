// Command pdfrag answers questions about a document using retrieval-augmented
// generation.
package main

import (
	"os"

	"github.com/custodia-labs/pdfrag/internal/adapters/driving/cli"
)

// version is set via -ldflags at build time.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetDependencies(newDependencies())

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
