// Command scriptvec compiles script test vector corpora into C++ fixtures.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/scriptvec/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// ExitErrors have already been reported by the command.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
