// ABOUTME: Tests for mirroring an upstream store into a local one.
// ABOUTME: Covers row counts, id reassignment, and the empty-store check.
package storage

import (
	"context"
	"testing"
)

func TestMigrateData(t *testing.T) {
	ctx := context.Background()
	src := seedTestDB(t)
	dst := setupTestDB(t)

	empty, err := dst.IsEmpty(ctx)
	if err != nil {
		t.Fatalf("IsEmpty failed: %v", err)
	}
	if !empty {
		t.Fatal("Expected fresh store to be empty")
	}

	summary, err := MigrateData(ctx, NewExporter(src.Products, src.Daily), dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Products != 4 {
		t.Errorf("Expected 4 products, got %d", summary.Products)
	}
	if summary.Snapshots != 4 {
		t.Errorf("Expected 4 snapshots, got %d", summary.Snapshots)
	}

	p, err := dst.Products.FindByCode(ctx, "P002")
	if err != nil || p == nil {
		t.Fatalf("Expected P002 in destination, got %v, %v", p, err)
	}
	if p.PrdName != "ABC成长" {
		t.Errorf("Expected name ABC成长, got %s", p.PrdName)
	}

	empty, err = dst.IsEmpty(ctx)
	if err != nil {
		t.Fatalf("IsEmpty failed: %v", err)
	}
	if empty {
		t.Error("Expected migrated store to be non-empty")
	}
}

func TestMigrateIntoSeededStoreKeepsBoth(t *testing.T) {
	ctx := context.Background()
	src := seedTestDB(t)
	dst := seedTestDB(t)

	if _, err := MigrateData(ctx, NewExporter(src.Products, src.Daily), dst); err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}

	all, err := dst.Products.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 8 {
		t.Errorf("Expected 8 products after second load, got %d", len(all))
	}
}
