// ABOUTME: Read-only repository interfaces for the SFM product and NAV tables.
// ABOUTME: Consumers depend on these so tests can swap in fakes.
package storage

import (
	"context"
	"errors"

	"github.com/trans/sfm-mcp/internal/models"
)

// ErrReadOnly is returned when attempting to write to a read-only store.
var ErrReadOnly = errors.New("storage is read-only")

// ProductRepository queries the product master.
// Single-row lookups return nil (and no error) when nothing matches.
type ProductRepository interface {
	ListAll(ctx context.Context) ([]*models.Product, error)
	FindByCode(ctx context.Context, code string) (*models.Product, error)
	SearchByName(ctx context.Context, fragment string) ([]*models.Product, error)
}

// DailyRepository queries the daily NAV snapshots.
type DailyRepository interface {
	ListAll(ctx context.Context) ([]*models.DailySnapshot, error)
	FindByCode(ctx context.Context, code string) ([]*models.DailySnapshot, error)
	FindByDate(ctx context.Context, date models.Date) ([]*models.DailySnapshot, error)
	FindByCodeAndDate(ctx context.Context, code string, date models.Date) (*models.DailySnapshot, error)
	FindByTaCode(ctx context.Context, taCode string) ([]*models.DailySnapshot, error)
}

// Compile-time checks.
var (
	_ ProductRepository = (*ProductStore)(nil)
	_ DailyRepository   = (*DailyStore)(nil)
)
