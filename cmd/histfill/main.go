// histfill fills the configured histograms from a file of JSON records,
// offline, and prints the result in the same form the plugin emits.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anthonydresser/fluent-bit-hist/log"
)

var (
	configFile string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "histograms.yaml", "Histograms definition file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
}

var rootCmd = &cobra.Command{
	Use:   "histfill",
	Short: "Fill histograms from JSON records",
	Long: `histfill reads the histograms definition used by the hist_aggregator
fluent-bit plugin and fills it from newline delimited JSON records.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

func main() {
	log.InitWriter("histfill", log.WarnLevel, os.Stderr)
	defer log.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
