// ABOUTME: CLI command for mirroring an upstream store into the configured local one.
// ABOUTME: Builds an offline SQLite copy of the product and NAV tables.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trans/sfm-mcp/internal/config"
	"github.com/trans/sfm-mcp/internal/storage"
	"go.uber.org/zap"
)

var (
	migrateFromDriver string
	migrateFromDSN    string
	migrateDryRun     bool
	migrateForce      bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy products and NAV from another store",
	Long: `Copy every product and NAV snapshot from a source store into the
configured store.

IMPORTANT:

  - The configured store must be local (database.auto_migrate enabled)
  - The source is opened read-only
  - A non-empty destination is refused unless --force is given
  - Run with --dry-run first to see what would be copied

USAGE:

  sfm-mcp migrate --from-driver postgres \
      --from-dsn "postgres://ro:secret@db:5432/sfm" --dry-run
  SFM_DB_AUTO_MIGRATE=true sfm-mcp migrate \
      --from-driver postgres --from-dsn "postgres://ro:secret@db:5432/sfm"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFromDSN == "" {
			return fmt.Errorf("--from-dsn is required")
		}
		ctx := cmd.Context()

		src, err := storage.Open(storage.Options{
			Driver: migrateFromDriver,
			DSN:    migrateFromDSN,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer src.Close()

		log.Info("migrate.source",
			zap.String("driver", migrateFromDriver),
			zap.String("dsn", config.MaskDSN(migrateFromDSN)),
		)

		exporter := storage.NewExporter(src.Products, src.Daily)
		out := cmd.OutOrStdout()

		if migrateDryRun {
			data, err := exporter.GetAllData(ctx, "")
			if err != nil {
				return fmt.Errorf("failed to read source: %w", err)
			}
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Fprintf(out, "Would copy %d products and %d snapshots\n", len(data.Products), len(data.Snapshots))
			return nil
		}

		if !migrateForce {
			empty, err := store.IsEmpty(ctx)
			if err != nil {
				return err
			}
			if !empty {
				return fmt.Errorf("destination store is not empty (use --force to append)")
			}
		}

		summary, err := storage.MigrateData(ctx, exporter, store)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Copied %d products and %d snapshots", summary.Products, summary.Snapshots)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFromDriver, "from-driver", config.DriverPostgres, "source driver (sqlite or postgres)")
	migrateCmd.Flags().StringVar(&migrateFromDSN, "from-dsn", "", "source connection string")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "copy even if the destination has rows")
	rootCmd.AddCommand(migrateCmd)
}
