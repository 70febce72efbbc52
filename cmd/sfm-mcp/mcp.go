// ABOUTME: CLI command for running one MCP endpoint over stdio.
// ABOUTME: Used when an MCP client launches sfm-mcp as a subprocess.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trans/sfm-mcp/internal/mcp"
)

var mcpEndpoint string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server on stdio",
	Long: `Serve a single MCP endpoint over stdin/stdout.

Logs go to stderr so stdout carries only protocol frames.

CLIENT CONFIGURATION:

  {
    "mcpServers": {
      "sfm": {
        "command": "sfm-mcp",
        "args": ["mcp", "--endpoint", "sfm"]
      }
    }
  }

SFM TOOLS:

  list_products     List every product
  get_product       Look up one product by code
  search_products   Find products whose name contains a fragment
  list_nav          NAV snapshots filtered by code, date, or TA
  get_nav           One NAV snapshot by code and date

SFM RESOURCES:

  sfm://products                  Product summary list
  sfm://products/{prd_code}       Full product record
  sfm://products/{prd_code}/nav   NAV history of one product`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := buildRegistry(store)
		if err != nil {
			return err
		}

		ep, ok := registry.Lookup(mcpEndpoint)
		if !ok {
			return fmt.Errorf("unknown endpoint: %s (available: %s)",
				mcpEndpoint, strings.Join(registry.Names(), ", "))
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return mcp.Serve(ctx, ep, log)
	},
}

func init() {
	mcpCmd.Flags().StringVarP(&mcpEndpoint, "endpoint", "e", "demo1", "endpoint to serve")
	rootCmd.AddCommand(mcpCmd)
}
