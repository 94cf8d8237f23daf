package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// lookupEnv is replaced in tests.
var lookupEnv = os.LookupEnv

var rootCmd = &cobra.Command{
	Use:   "sparrow",
	Short: "Sparrow: edge gateway and dispatch coordinator",
	Long: `Sparrow relays JSON dispatch requests from browser clients to an internal
coordinator service. Run "sparrow edge" for the public gateway,
"sparrow coordinator" for the dispatch endpoint behind it.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
