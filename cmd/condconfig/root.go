package main

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "condconfig",
	Short: "Condconfig - conditional commerce configuration importer",
	Long: `Condconfig imports commerce environment and policy set documents when a
deployment boots.

Every JSON document under <root>/data/environments is classified by its "$type"
discriminator:
  - Commerce environments and policy sets are always imported
  - Conditional policy sets are imported only when every condition pattern
    matches the corresponding AppSettings value
  - Unrecognized documents are skipped
  - A malformed document stops the rest of the batch (unless --on-malformed continue)`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}
