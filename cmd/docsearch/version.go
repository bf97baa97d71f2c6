package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docweave/docsearch/internal/cache"
	"github.com/docweave/docsearch/internal/mcp"
)

var (
	version   = mcp.ServerVersion
	buildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("docsearch %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", cache.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", cache.DriverName)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
