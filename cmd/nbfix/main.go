package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/danieljhkim/nbfix/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		// Issue reports have already been printed by the run itself.
		if !errors.Is(err, cli.ErrIssuesFound) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}
}
