// Command sunsetctl scores readings offline, verifies the shared score vector
// table and fetches one-off forecasts from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sunsetctl",
		Short:         "Sunset score tools for Lake Shinji, Matsue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(scoreCmd())
	root.AddCommand(vectorsCmd())
	root.AddCommand(forecastCmd())

	return root
}
