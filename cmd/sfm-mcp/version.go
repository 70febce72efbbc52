// ABOUTME: CLI command printing the build version.
// ABOUTME: The version string is set with -ldflags at build time.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sfm-mcp %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
