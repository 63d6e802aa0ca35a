// Package cli implements the birdkeep command-line client. Commands call
// the REST API through internal/remote and render the returned pages as
// tables; no search or pagination logic lives on this side.
package cli

import (
	"fmt"
	"os"

	"github.com/birdkeep/birdkeep/internal/remote"
	"github.com/birdkeep/birdkeep/internal/version"
	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:     "birdkeep",
	Short:   "Bird sighting tracker client",
	Version: version.Short(),
	Long: `birdkeep is the command-line client for a birdkeepd server.
It manages bird species records and timestamped sightings, with
paged listing and search over both.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultServer := os.Getenv("BIRDKEEP_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer,
		"base URL of the birdkeepd server")

	rootCmd.AddCommand(birdsCmd)
	rootCmd.AddCommand(sightingsCmd)
}

// client returns a REST client for the configured server.
func client() *remote.Client {
	return remote.NewClient(serverURL)
}

// exitError prints an error and exits.
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
