// Command wayfarer plans a trip from the terminal: it runs the research,
// local guide and itinerary stages against the configured model, shows
// progress as it goes, and writes each stage's report to disk.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "wayfarer",
	Short:         "Plan a trip with a three-stage model pipeline",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.toml", "Path to the base config file")
	rootCmd.AddCommand(planCmd(), stagesCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
