// ABOUTME: Root Cobra command for sfm-mcp.
// ABOUTME: Loads config, sets up logging, and owns the store lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trans/sfm-mcp/internal/config"
	"github.com/trans/sfm-mcp/internal/logger"
	"github.com/trans/sfm-mcp/internal/storage"
	"go.uber.org/zap"
)

var (
	cfgFile string

	cfg   *config.Config
	store *storage.DB
	log   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sfm-mcp",
	Short: "MCP server for wealth-management products and NAV data",
	Long: `sfm-mcp exposes the product master (sfm_ta_product) and the daily NAV
table (sfm_ta_prd_daily) to AI assistants over the Model Context Protocol,
and to everything else over a small JSON API.

ENDPOINTS:

  demo1   /mcp/demo1/sse   getWeather, config://app-version,
                           db://users/{user_id}/email, askQuestion
  sfm     /mcp/sfm/sse     product and NAV tools, resources, explainProduct

  Each endpoint also accepts streamable HTTP at /mcp/<name>/stream.

QUICK START:

  $ sfm-mcp serve                         # HTTP/SSE runtime on :8080
  $ sfm-mcp mcp --endpoint sfm            # one endpoint over stdio
  $ sfm-mcp products search 稳健           # query products from the shell
  $ sfm-mcp nav show P001 2024-03-15      # one NAV snapshot

CONFIGURATION:

  Settings are read from ~/.config/sfm-mcp/mcpserver.yml (override with
  --config). ${VAR} references are expanded, a .env file is honoured, and
  SFM_DB_DSN, SFM_DB_DRIVER, SFM_HTTP_ADDR, SFM_LOG_LEVEL and SFM_ENV
  override the file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for commands that don't need a store
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		path := cfgFile
		if path == "" {
			path = config.GetConfigPath()
		}

		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger.Init("sfm-mcp", cfg.Logging.Env, cfg.Logging.Level)
		log = logger.L()
		log.Debug("config.loaded",
			zap.String("path", path),
			zap.String("driver", cfg.Database.Driver),
			zap.String("dsn", config.MaskDSN(cfg.DatabaseDSN())),
		)

		store, err = openStore(cfg)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		logger.Sync()
		if store != nil {
			err := store.Close()
			store = nil
			return err
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func openStore(c *config.Config) (*storage.DB, error) {
	return storage.Open(storage.Options{
		Driver:          c.Database.Driver,
		DSN:             c.DatabaseDSN(),
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		AutoMigrate:     c.Database.AutoMigrate,
		SlowThreshold:   c.Database.SlowThreshold,
	}, log)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ~/.config/sfm-mcp/mcpserver.yml)")
}
