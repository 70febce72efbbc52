// ABOUTME: Shared test helpers for storage tests.
// ABOUTME: Provides setupTestDB and a small seeded product/NAV fixture.
package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/trans/sfm-mcp/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "sfm.db")
	db, err := Open(Options{Driver: "sqlite", DSN: dbPath, AutoMigrate: true}, nil)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func testProducts() []*models.Product {
	return []*models.Product{
		{PrdCode: "P001", PrdName: "稳健理财ABC一号", TaCode: "TA1", RiskLevel: "R2", CurrType: "156", Nav: dec("1.0234"), NavDate: 20240102},
		{PrdCode: "P002", PrdName: "ABC成长", TaCode: "TA1", RiskLevel: "R3", CurrType: "156", Nav: dec("0.9981"), NavDate: 20240101},
		{PrdCode: "P003", PrdName: "进取100%收益", TaCode: "TA2", RiskLevel: "R4", CurrType: "156"},
		{PrdCode: "P004", PrdName: "Cash_Plus", TaCode: "TA2", RiskLevel: "R1", CurrType: "840"},
	}
}

func testSnapshots() []*models.DailySnapshot {
	return []*models.DailySnapshot{
		{PrdCode: "P001", TaCode: "TA1", IssDate: 20240101, CfmDate: 20240102, Nav: dec("1.0200"), TotNav: dec("1.1200"), PrdStatus: "0"},
		{PrdCode: "P001", TaCode: "TA1", IssDate: 20240102, CfmDate: 20240103, Nav: dec("1.0234"), TotNav: dec("1.1234"), PrdStatus: "0"},
		{PrdCode: "P002", TaCode: "TA1", IssDate: 20240101, CfmDate: 20240102, Nav: dec("0.9981"), TotNav: dec("0.9981"), PrdStatus: "0"},
		{PrdCode: "P004", TaCode: "TA2", IssDate: 20240101, SevenRate: dec("2.1350"), TenthIncome: dec("0.5821"), PrdStatus: "0"},
	}
}

// seedTestDB opens a fresh store and loads the fixture rows into it.
func seedTestDB(t *testing.T) *DB {
	t.Helper()

	db := setupTestDB(t)
	err := db.ImportData(context.Background(), &ExportData{
		Products:  testProducts(),
		Snapshots: testSnapshots(),
	})
	if err != nil {
		t.Fatalf("Failed to seed database: %v", err)
	}
	return db
}
