package main

import (
	"fmt"
	"os"

	"github.com/jpl-au/filetrack/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "filetrack: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
