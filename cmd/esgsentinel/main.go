// Command esgsentinel is the CLI entry point for running ESG risk
// assessments and supplier evaluations from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/turtacn/ESG-Sentinel/internal/interfaces/cli"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
