package main

import (
	"fmt"
	"os"

	"github.com/obsctl/obsctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Print error if not already printed by a command handler
		// (flag parse failures and the like).
		if !cli.IsPrintedError(err) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}
