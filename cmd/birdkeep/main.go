// Command birdkeep is the CLI client for a birdkeepd server.
package main

import (
	"os"

	"github.com/birdkeep/birdkeep/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
