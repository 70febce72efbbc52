// ABOUTME: Daily NAV snapshot mirroring the sfm_ta_prd_daily table.
// ABOUTME: One row per product per valuation date; (PrdCode, IssDate) is the natural key.
package models

import (
	"github.com/shopspring/decimal"
)

// DailySnapshot is the valuation of one product on one date.
type DailySnapshot struct {
	ID          int64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	IssDate     Date                `gorm:"column:iss_date;index" json:"iss_date"`
	CfmDate     Date                `gorm:"column:cfm_date" json:"cfm_date,omitempty"`
	TaCode      string              `gorm:"column:ta_code;index" json:"ta_code"`
	PrdCode     string              `gorm:"column:prd_code;index" json:"prd_code"`
	Nav         decimal.NullDecimal `gorm:"column:nav;type:decimal(20,8)" json:"nav"`
	SevenRate   decimal.NullDecimal `gorm:"column:seven_rate;type:decimal(20,8)" json:"seven_rate"`
	TenthIncome decimal.NullDecimal `gorm:"column:tenth_income;type:decimal(20,8)" json:"tenth_income"`
	PrdStatus   string              `gorm:"column:prd_status" json:"prd_status,omitempty"`
	TotNav      decimal.NullDecimal `gorm:"column:tot_nav;type:decimal(20,8)" json:"tot_nav"`
}

// TableName binds DailySnapshot to the upstream table.
func (DailySnapshot) TableName() string {
	return "sfm_ta_prd_daily"
}

// Latest returns the snapshot with the greatest IssDate, or nil for an empty slice.
func Latest(snapshots []*DailySnapshot) *DailySnapshot {
	var latest *DailySnapshot
	for _, s := range snapshots {
		if latest == nil || s.IssDate > latest.IssDate {
			latest = s
		}
	}
	return latest
}
