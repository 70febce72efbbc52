// ABOUTME: Product master record mirroring the sfm_ta_product table.
// ABOUTME: Read-only here; rows are maintained by upstream back-office processes.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one row of the product master. PrdCode is the business key.
type Product struct {
	ID                int64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PrdID             string              `gorm:"column:prd_id" json:"prd_id,omitempty"`
	PrdCode           string              `gorm:"column:prd_code;index" json:"prd_code"`
	ModelFlag         string              `gorm:"column:model_flag" json:"model_flag,omitempty"`
	PrdCyclicalType   string              `gorm:"column:prd_cyclical_type" json:"prd_cyclical_type,omitempty"`
	TaCode            string              `gorm:"column:ta_code" json:"ta_code,omitempty"`
	PrdName           string              `gorm:"column:prd_name" json:"prd_name"`
	PrdShortName      string              `gorm:"column:prd_short_name" json:"prd_short_name,omitempty"`
	InterestWay       string              `gorm:"column:interest_way" json:"interest_way,omitempty"`
	Nav               decimal.NullDecimal `gorm:"column:nav;type:decimal(20,8)" json:"nav"`
	TotNav            decimal.NullDecimal `gorm:"column:tot_nav;type:decimal(20,8)" json:"tot_nav"`
	NavDate           Date                `gorm:"column:nav_date" json:"nav_date,omitempty"`
	FaceValue         decimal.NullDecimal `gorm:"column:face_value;type:decimal(20,4)" json:"face_value"`
	IssPrice          decimal.NullDecimal `gorm:"column:iss_price;type:decimal(20,4)" json:"iss_price"`
	PrdBenchmark      string              `gorm:"column:prd_benchmark" json:"prd_benchmark,omitempty"`
	PrdSponsor        string              `gorm:"column:prd_sponsor" json:"prd_sponsor,omitempty"`
	PrdTrustee        string              `gorm:"column:prd_trustee" json:"prd_trustee,omitempty"`
	PrdManager        string              `gorm:"column:prd_manager" json:"prd_manager,omitempty"`
	BranchNo          string              `gorm:"column:branch_no" json:"branch_no,omitempty"`
	DepID             string              `gorm:"column:dep_id" json:"dep_id,omitempty"`
	IpoStartDate      Date                `gorm:"column:ipo_start_date" json:"ipo_start_date,omitempty"`
	IpoEndDate        Date                `gorm:"column:ipo_end_date" json:"ipo_end_date,omitempty"`
	EstabDate         Date                `gorm:"column:estab_date" json:"estab_date,omitempty"`
	LockUpDays        int                 `gorm:"column:lock_up_days" json:"lock_up_days,omitempty"`
	BeginOfLock       string              `gorm:"column:begin_of_lock" json:"begin_of_lock,omitempty"`
	IncomeStartDate   Date                `gorm:"column:income_start_date" json:"income_start_date,omitempty"`
	IncomeEndDate     Date                `gorm:"column:income_end_date" json:"income_end_date,omitempty"`
	EndDate           Date                `gorm:"column:end_date" json:"end_date,omitempty"`
	AlimitEndDate     Date                `gorm:"column:alimit_end_date" json:"alimit_end_date,omitempty"`
	IpoTime           int                 `gorm:"column:ipo_time" json:"ipo_time,omitempty"`
	RealEstabDate     Date                `gorm:"column:real_estab_date" json:"real_estab_date,omitempty"`
	PrdMinBala        decimal.NullDecimal `gorm:"column:prd_min_bala;type:decimal(20,2)" json:"prd_min_bala"`
	PrdMaxBala        decimal.NullDecimal `gorm:"column:prd_max_bala;type:decimal(20,2)" json:"prd_max_bala"`
	PMinBala          decimal.NullDecimal `gorm:"column:p_min_bala;type:decimal(20,2)" json:"p_min_bala"`
	PMaxBala          decimal.NullDecimal `gorm:"column:p_max_bala;type:decimal(20,2)" json:"p_max_bala"`
	PrdIssueRealBala  decimal.NullDecimal `gorm:"column:prd_issue_real_bala;type:decimal(20,2)" json:"prd_issue_real_bala"`
	DivModes          string              `gorm:"column:div_modes" json:"div_modes,omitempty"`
	DivMode           string              `gorm:"column:div_mode" json:"div_mode,omitempty"`
	RecPerLiquiMode   string              `gorm:"column:rec_per_liqui_mode" json:"rec_per_liqui_mode,omitempty"`
	OpenPerLiquiMode  string              `gorm:"column:open_per_liqui_mode" json:"open_per_liqui_mode,omitempty"`
	BuyAccountingType string              `gorm:"column:buy_accounting_type" json:"buy_accounting_type,omitempty"`
	WithdrawMode      string              `gorm:"column:withdraw_mode" json:"withdraw_mode,omitempty"`
	Channels          string              `gorm:"column:channels" json:"channels,omitempty"`
	ClientGroups      string              `gorm:"column:client_groups" json:"client_groups,omitempty"`
	ControlFlag       string              `gorm:"column:control_flag" json:"control_flag,omitempty"`
	SubExp            string              `gorm:"column:sub_exp" json:"sub_exp,omitempty"`
	RiskLevel         string              `gorm:"column:risk_level" json:"risk_level,omitempty"`
	PrdStatus         string              `gorm:"column:prd_status" json:"prd_status,omitempty"`
	ConvFlag          string              `gorm:"column:conv_flag" json:"conv_flag,omitempty"`
	PrdTotal          decimal.NullDecimal `gorm:"column:prd_total;type:decimal(20,2)" json:"prd_total"`
	CurrType          string              `gorm:"column:curr_type" json:"curr_type,omitempty"`
	CashFlag          string              `gorm:"column:cash_flag" json:"cash_flag,omitempty"`
	OpenTime          int                 `gorm:"column:open_time" json:"open_time,omitempty"`
	CloseTime         int                 `gorm:"column:close_time" json:"close_time,omitempty"`

	// Subscription limits: p* apply to individuals, o* to institutions.
	FirstAmt           decimal.NullDecimal `gorm:"column:first_amt;type:decimal(20,2)" json:"first_amt"`
	PappAmt            decimal.NullDecimal `gorm:"column:papp_amt;type:decimal(20,2)" json:"papp_amt"`
	PminimumHoldingVol decimal.NullDecimal `gorm:"column:pminimum_holding_vol;type:decimal(20,2)" json:"pminimum_holding_vol"`
	PmaximumHoldingAmt decimal.NullDecimal `gorm:"column:pmaximum_holding_amt;type:decimal(20,2)" json:"pmaximum_holding_amt"`
	HoldingLimitType   int                 `gorm:"column:holding_limit_type" json:"holding_limit_type,omitempty"`
	OfirstAmt          decimal.NullDecimal `gorm:"column:ofirst_amt;type:decimal(20,2)" json:"ofirst_amt"`
	OappAmt            decimal.NullDecimal `gorm:"column:oapp_amt;type:decimal(20,2)" json:"oapp_amt"`
	OminimumHoldingVol decimal.NullDecimal `gorm:"column:ominimum_holding_vol;type:decimal(20,2)" json:"ominimum_holding_vol"`
	OmaximumHoldingAmt decimal.NullDecimal `gorm:"column:omaximum_holding_amt;type:decimal(20,2)" json:"omaximum_holding_amt"`
	BuyUnitAmt         decimal.NullDecimal `gorm:"column:buy_unit_amt;type:decimal(20,2)" json:"buy_unit_amt"`
	WithdrawUnitAmt    decimal.NullDecimal `gorm:"column:withdraw_unit_amt;type:decimal(20,2)" json:"withdraw_unit_amt"`
	PrdCurrentQuota    decimal.NullDecimal `gorm:"column:prd_current_quota;type:decimal(20,2)" json:"prd_current_quota"`

	DebitAccount      string `gorm:"column:debit_account" json:"debit_account,omitempty"`
	CrebitCustID      int64  `gorm:"column:crebit_cust_id" json:"crebit_cust_id,omitempty"`
	CrebitAccountName string `gorm:"column:crebit_account_name" json:"crebit_account_name,omitempty"`
	AdvAccount        string `gorm:"column:adv_account" json:"adv_account,omitempty"`
	AdvCustID         int64  `gorm:"column:adv_cust_id" json:"adv_cust_id,omitempty"`
	AdvAccountName    string `gorm:"column:adv_account_name" json:"adv_account_name,omitempty"`
	ChargeAccount     string `gorm:"column:charge_account" json:"charge_account,omitempty"`
	ShareClass        string `gorm:"column:share_class" json:"share_class,omitempty"`
	IsNeedCharge      string `gorm:"column:is_need_charge" json:"is_need_charge,omitempty"`
	IsNightMarket     string `gorm:"column:is_night_market" json:"is_night_market,omitempty"`
	JSONParam         string `gorm:"column:json_param" json:"json_param,omitempty"`

	CreatedBy  string     `gorm:"column:created_by" json:"created_by,omitempty"`
	CreateTime *time.Time `gorm:"column:create_time" json:"create_time,omitempty"`
	UpdatedBy  string     `gorm:"column:updated_by" json:"updated_by,omitempty"`
	UpdateTime *time.Time `gorm:"column:update_time" json:"update_time,omitempty"`
}

// TableName binds Product to the upstream table.
func (Product) TableName() string {
	return "sfm_ta_product"
}

// DisplayName prefers the short name when the full name is empty.
func (p *Product) DisplayName() string {
	if p.PrdName != "" {
		return p.PrdName
	}
	if p.PrdShortName != "" {
		return p.PrdShortName
	}
	return p.PrdCode
}

// RiskLevelLabel maps the upstream R1..R5 risk codes to readable labels.
// Unknown codes are returned unchanged.
func (p *Product) RiskLevelLabel() string {
	switch p.RiskLevel {
	case "1", "R1":
		return "R1 (low)"
	case "2", "R2":
		return "R2 (medium-low)"
	case "3", "R3":
		return "R3 (medium)"
	case "4", "R4":
		return "R4 (medium-high)"
	case "5", "R5":
		return "R5 (high)"
	default:
		return p.RiskLevel
	}
}
