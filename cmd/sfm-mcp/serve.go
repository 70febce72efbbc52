// ABOUTME: CLI command for running the HTTP runtime.
// ABOUTME: Serves every enabled MCP endpoint over SSE and streamable HTTP plus the JSON API.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trans/sfm-mcp/internal/mcp"
	"github.com/trans/sfm-mcp/internal/server"
	"github.com/trans/sfm-mcp/internal/storage"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP/SSE runtime",
	Long: `Start the embedded HTTP runtime.

ROUTES:

  /mcp/<name>/sse       MCP over server-sent events
  /mcp/<name>/stream    MCP over streamable HTTP
  /api/v1/products      product lookups (JSON envelope)
  /api/v1/nav           NAV lookups (JSON envelope)
  /health               store reachability
  /metrics              Prometheus metrics

  Which MCP endpoints are served is controlled by "endpoints" in the
  config file. The process stops gracefully on SIGINT or SIGTERM.

EXAMPLES:

  sfm-mcp serve                    # listen on server.addr (default :8080)
  sfm-mcp serve --addr :9090       # override the listen address`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		registry, err := buildRegistry(store)
		if err != nil {
			return err
		}

		rt, err := server.New(cfg, registry, server.Deps{
			Products: store.Products,
			Daily:    store.Daily,
			Store:    store,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to build runtime: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.Info("server.starting",
			zap.String("addr", cfg.Server.Addr),
			zap.Strings("endpoints", rt.Endpoints()),
		)
		return rt.Run(ctx)
	},
}

// buildRegistry lists every MCP endpoint this binary knows about.
func buildRegistry(db *storage.DB) (*mcp.Registry, error) {
	return mcp.NewRegistry(
		mcp.Demo1(),
		mcp.SFM(db.Products, db.Daily),
	)
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
