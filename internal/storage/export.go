// ABOUTME: Export and import of product and NAV data.
// ABOUTME: Supports JSON, YAML, and Markdown export; import only into local stores.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trans/sfm-mcp/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// ExportData represents the full export format for SFM data.
type ExportData struct {
	Version    string                  `json:"version" yaml:"version"`
	ExportedAt time.Time               `json:"exported_at" yaml:"exported_at"`
	Tool       string                  `json:"tool" yaml:"tool"`
	Products   []*models.Product       `json:"products" yaml:"products"`
	Snapshots  []*models.DailySnapshot `json:"snapshots" yaml:"snapshots"`
}

// Exporter reads both tables through their facades.
type Exporter struct {
	Products ProductRepository
	Daily    DailyRepository
}

// NewExporter returns an exporter over the given repositories.
func NewExporter(products ProductRepository, daily DailyRepository) *Exporter {
	return &Exporter{Products: products, Daily: daily}
}

// GetAllData retrieves all data for export. A non-empty code limits the
// export to that product and its snapshots.
func (e *Exporter) GetAllData(ctx context.Context, code string) (*ExportData, error) {
	var products []*models.Product

	if code == "" {
		all, err := e.Products.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		products = all
	} else {
		p, err := e.Products.FindByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if p != nil {
			products = []*models.Product{p}
		}
	}

	snapshots, err := QueryNav(ctx, e.Daily, NavFilter{PrdCode: code})
	if err != nil {
		return nil, err
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "sfm-mcp",
		Products:   products,
		Snapshots:  snapshots,
	}, nil
}

// ExportJSON exports data as JSON.
func (e *Exporter) ExportJSON(ctx context.Context, code string) ([]byte, error) {
	data, err := e.GetAllData(ctx, code)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports data as YAML with snapshots grouped by product code.
func (e *Exporter) ExportYAML(ctx context.Context, code string) ([]byte, error) {
	data, err := e.GetAllData(ctx, code)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string                    `yaml:"version"`
		ExportedAt string                    `yaml:"exported_at"`
		Tool       string                    `yaml:"tool"`
		Products   []yamlProduct             `yaml:"products"`
		Nav        map[string][]yamlSnapshot `yaml:"nav"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Products:   make([]yamlProduct, 0, len(data.Products)),
		Nav:        make(map[string][]yamlSnapshot),
	}

	for _, p := range data.Products {
		yamlData.Products = append(yamlData.Products, yamlProduct{
			Code:      p.PrdCode,
			Name:      p.PrdName,
			TaCode:    p.TaCode,
			RiskLevel: p.RiskLevel,
			Currency:  p.CurrType,
			Status:    p.PrdStatus,
			Nav:       formatDecimal(p.Nav),
			NavDate:   p.NavDate.String(),
			EstabDate: p.EstabDate.String(),
			EndDate:   p.EndDate.String(),
		})
	}

	for _, s := range data.Snapshots {
		yamlData.Nav[s.PrdCode] = append(yamlData.Nav[s.PrdCode], yamlSnapshot{
			Date:        s.IssDate.String(),
			Nav:         formatDecimal(s.Nav),
			TotNav:      formatDecimal(s.TotNav),
			SevenRate:   formatDecimal(s.SevenRate),
			TenthIncome: formatDecimal(s.TenthIncome),
			Status:      s.PrdStatus,
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlProduct struct {
	Code      string `yaml:"code"`
	Name      string `yaml:"name"`
	TaCode    string `yaml:"ta_code,omitempty"`
	RiskLevel string `yaml:"risk_level,omitempty"`
	Currency  string `yaml:"currency,omitempty"`
	Status    string `yaml:"status,omitempty"`
	Nav       string `yaml:"nav,omitempty"`
	NavDate   string `yaml:"nav_date,omitempty"`
	EstabDate string `yaml:"estab_date,omitempty"`
	EndDate   string `yaml:"end_date,omitempty"`
}

type yamlSnapshot struct {
	Date        string `yaml:"date"`
	Nav         string `yaml:"nav,omitempty"`
	TotNav      string `yaml:"tot_nav,omitempty"`
	SevenRate   string `yaml:"seven_rate,omitempty"`
	TenthIncome string `yaml:"tenth_income,omitempty"`
	Status      string `yaml:"status,omitempty"`
}

// ExportMarkdown exports data as Markdown tables.
func (e *Exporter) ExportMarkdown(ctx context.Context, code string) (string, error) {
	data, err := e.GetAllData(ctx, code)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# SFM Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Products\n\n")
	sb.WriteString("| Code | Name | TA | Risk | Currency | NAV | NAV Date |\n")
	sb.WriteString("|------|------|----|------|----------|-----|----------|\n")
	for _, p := range data.Products {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |\n",
			p.PrdCode, escapeCell(p.PrdName), p.TaCode, p.RiskLevel, p.CurrType,
			formatDecimal(p.Nav), p.NavDate.String()))
	}
	sb.WriteString("\n")

	// Group snapshots by product; GetAllData already sorted them.
	var codes []string
	grouped := make(map[string][]*models.DailySnapshot)
	for _, s := range data.Snapshots {
		if _, ok := grouped[s.PrdCode]; !ok {
			codes = append(codes, s.PrdCode)
		}
		grouped[s.PrdCode] = append(grouped[s.PrdCode], s)
	}

	for _, c := range codes {
		sb.WriteString(fmt.Sprintf("## NAV %s\n\n", c))
		sb.WriteString("| Date | NAV | Cumulative NAV | 7-Day Yield | Income/10k | Status |\n")
		sb.WriteString("|------|-----|----------------|-------------|------------|--------|\n")
		for _, s := range grouped[c] {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
				s.IssDate.String(), formatDecimal(s.Nav), formatDecimal(s.TotNav),
				formatDecimal(s.SevenRate), formatDecimal(s.TenthIncome), s.PrdStatus))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// ImportData loads exported rows into a local store opened with AutoMigrate.
// Upstream-backed stores are read-only and return ErrReadOnly.
func (d *DB) ImportData(ctx context.Context, data *ExportData) error {
	if !d.writable {
		return ErrReadOnly
	}

	return d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(data.Products) > 0 {
			if err := tx.CreateInBatches(data.Products, 100).Error; err != nil {
				return fmt.Errorf("import products: %w", err)
			}
		}
		if len(data.Snapshots) > 0 {
			if err := tx.CreateInBatches(data.Snapshots, 100).Error; err != nil {
				return fmt.Errorf("import snapshots: %w", err)
			}
		}
		return nil
	})
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(ctx context.Context, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.ImportData(ctx, &exportData)
}

func formatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
