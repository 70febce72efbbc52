// ABOUTME: NAV snapshot filtering on top of the daily facade.
// ABOUTME: Picks the narrowest lookup and orders rows by code then date.
package storage

import (
	"context"
	"sort"

	"github.com/trans/sfm-mcp/internal/models"
)

// NavFilter narrows a NAV query. Zero fields are ignored.
type NavFilter struct {
	PrdCode string
	IssDate models.Date
	TaCode  string
}

// QueryNav picks the narrowest facade lookup for f and applies the remaining
// filters in memory. Results are ordered by product code, then valuation date.
func QueryNav(ctx context.Context, daily DailyRepository, f NavFilter) ([]*models.DailySnapshot, error) {
	var (
		snapshots []*models.DailySnapshot
		err       error
	)

	switch {
	case f.PrdCode != "" && !f.IssDate.IsZero():
		var s *models.DailySnapshot
		s, err = daily.FindByCodeAndDate(ctx, f.PrdCode, f.IssDate)
		if s != nil {
			snapshots = []*models.DailySnapshot{s}
		}
	case f.PrdCode != "":
		snapshots, err = daily.FindByCode(ctx, f.PrdCode)
	case !f.IssDate.IsZero():
		snapshots, err = daily.FindByDate(ctx, f.IssDate)
	case f.TaCode != "":
		snapshots, err = daily.FindByTaCode(ctx, f.TaCode)
	default:
		snapshots, err = daily.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	if f.TaCode != "" {
		filtered := snapshots[:0]
		for _, s := range snapshots {
			if s.TaCode == f.TaCode {
				filtered = append(filtered, s)
			}
		}
		snapshots = filtered
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		if snapshots[i].PrdCode != snapshots[j].PrdCode {
			return snapshots[i].PrdCode < snapshots[j].PrdCode
		}
		return snapshots[i].IssDate < snapshots[j].IssDate
	})
	return snapshots, nil
}
