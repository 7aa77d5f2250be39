// Command vastlit configures the VAST conformance test suite.
package main

import (
	"os"

	"github.com/roach88/vastlit/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
