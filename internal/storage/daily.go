// ABOUTME: Daily NAV snapshot query facade.
// ABOUTME: Filters by product code, valuation date, both, or transfer agent.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/trans/sfm-mcp/internal/metrics"
	"github.com/trans/sfm-mcp/internal/models"
	"gorm.io/gorm"
)

const dailyTable = "sfm_ta_prd_daily"

// DailyStore queries sfm_ta_prd_daily.
type DailyStore struct {
	db *gorm.DB
}

// ListAll returns every snapshot row.
func (s *DailyStore) ListAll(ctx context.Context) (out []*models.DailySnapshot, err error) {
	defer func(start time.Time) { metrics.ObserveQuery(dailyTable, "list_all", start, err) }(time.Now())

	if err = s.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// FindByCode returns all snapshots of one product.
func (s *DailyStore) FindByCode(ctx context.Context, code string) (out []*models.DailySnapshot, err error) {
	defer func(start time.Time) { metrics.ObserveQuery(dailyTable, "find_by_code", start, err) }(time.Now())

	if err = s.db.WithContext(ctx).Where("prd_code = ?", code).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find snapshots for %s: %w", code, err)
	}
	return out, nil
}

// FindByDate returns all snapshots valued on date.
func (s *DailyStore) FindByDate(ctx context.Context, date models.Date) (out []*models.DailySnapshot, err error) {
	defer func(start time.Time) { metrics.ObserveQuery(dailyTable, "find_by_date", start, err) }(time.Now())

	if err = s.db.WithContext(ctx).Where("iss_date = ?", date).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find snapshots on %d: %w", date, err)
	}
	return out, nil
}

// FindByCodeAndDate looks up one snapshot by its natural key.
// Returns nil when either field does not match.
func (s *DailyStore) FindByCodeAndDate(ctx context.Context, code string, date models.Date) (snap *models.DailySnapshot, err error) {
	defer func(start time.Time) { metrics.ObserveQuery(dailyTable, "find_by_code_and_date", start, err) }(time.Now())

	var rows []*models.DailySnapshot
	err = s.db.WithContext(ctx).
		Where("prd_code = ? AND iss_date = ?", code, date).
		Order("id").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find snapshot %s@%d: %w", code, date, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// FindByTaCode returns all snapshots administered by a transfer agent.
func (s *DailyStore) FindByTaCode(ctx context.Context, taCode string) (out []*models.DailySnapshot, err error) {
	defer func(start time.Time) { metrics.ObserveQuery(dailyTable, "find_by_ta_code", start, err) }(time.Now())

	if err = s.db.WithContext(ctx).Where("ta_code = ?", taCode).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find snapshots for TA %s: %w", taCode, err)
	}
	return out, nil
}
