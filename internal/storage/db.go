// ABOUTME: Relational store connection and lifecycle management through GORM.
// ABOUTME: SQLite runs on the modernc.org/sqlite database/sql driver registered as "sqlite"; Postgres uses pgx.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// Options configures Open.
type Options struct {
	Driver          string // "sqlite" or "postgres"
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	SlowThreshold   time.Duration
}

// DB wraps the GORM handle shared by the query facades.
type DB struct {
	gorm     *gorm.DB
	driver   string
	writable bool
	logger   *zap.Logger

	Products *ProductStore
	Daily    *DailyStore
}

// sqlitePragmas mirror the settings used for local SQLite stores.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
}

// Open connects to the configured store. With AutoMigrate set the two
// tables are created if missing and the store accepts Import; otherwise
// it is strictly read-only.
func Open(opts Options, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newGormLogger(logger, opts.SlowThreshold),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	d := &DB{
		gorm:     gdb,
		driver:   opts.Driver,
		writable: opts.AutoMigrate,
		logger:   logger,
	}
	d.Products = &ProductStore{db: gdb}
	d.Daily = &DailyStore{db: gdb}

	if opts.AutoMigrate {
		if err := d.migrate(); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("initialize schema: %w", err)
		}
	}

	logger.Info("store.opened",
		zap.String("driver", opts.Driver),
		zap.Bool("auto_migrate", opts.AutoMigrate),
	)
	return d, nil
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case "sqlite", "":
		if opts.DSN == "" {
			return nil, fmt.Errorf("sqlite dsn is required")
		}
		if !strings.HasPrefix(opts.DSN, "file:") && opts.DSN != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(opts.DSN), 0750); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
		return sqlite.New(sqlite.Config{
			DriverName: "sqlite",
			DSN:        sqliteDSN(opts.DSN),
		}), nil
	case "postgres":
		return postgres.Open(opts.DSN), nil
	default:
		return nil, fmt.Errorf("unknown database driver: %q", opts.Driver)
	}
}

// sqliteDSN appends the connection pragmas unless the caller set their own.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_pragma=") {
		return path
	}
	params := make([]string, 0, len(sqlitePragmas))
	for _, p := range sqlitePragmas {
		params = append(params, "_pragma="+p)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

// Driver returns the configured driver name.
func (d *DB) Driver() string {
	return d.driver
}

// Ping verifies the store is reachable.
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
