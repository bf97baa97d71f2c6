package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagCache   string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docsearch",
	Short: "Hybrid keyword and semantic search over a documentation corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagCache, "cache", "", "corpus cache database path ('off' disables persistence)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}
