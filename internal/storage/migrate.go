// ABOUTME: Mirrors product and NAV rows from an upstream store into a local one.
// ABOUTME: Used to build an offline SQLite copy of the back-office tables.

package storage

import (
	"context"
	"fmt"

	"github.com/trans/sfm-mcp/internal/models"
)

// MigrateSummary holds counts of migrated rows.
type MigrateSummary struct {
	Products  int
	Snapshots int
}

// MigrateData copies every product and snapshot from src into dst.
// dst must be writable and should be empty before calling this function.
func MigrateData(ctx context.Context, src *Exporter, dst *DB) (*MigrateSummary, error) {
	products, err := src.Products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source products: %w", err)
	}
	snapshots, err := src.Daily.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source snapshots: %w", err)
	}

	// Surrogate ids are reassigned locally.
	for _, p := range products {
		p.ID = 0
	}
	for _, s := range snapshots {
		s.ID = 0
	}

	if err := dst.ImportData(ctx, &ExportData{Products: products, Snapshots: snapshots}); err != nil {
		return nil, err
	}

	return &MigrateSummary{Products: len(products), Snapshots: len(snapshots)}, nil
}

// IsEmpty reports whether both tables of a store have no rows.
func (d *DB) IsEmpty(ctx context.Context) (bool, error) {
	var n int64
	if err := d.gorm.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := d.gorm.WithContext(ctx).Model(&models.DailySnapshot{}).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count snapshots: %w", err)
	}
	return n == 0, nil
}
