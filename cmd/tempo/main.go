// Command tempo evaluates date-time arithmetic and keeps a timeline of
// labelled intervals.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/tempo/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
