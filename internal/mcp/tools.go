// ABOUTME: The "sfm" endpoint's tools over the product and NAV query facades.
// ABOUTME: Missing rows are normal results with found=false, never tool errors.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
	"github.com/trans/sfm-mcp/internal/models"
	"github.com/trans/sfm-mcp/internal/storage"
)

// sfmHandlers binds the facades to tool, resource, and prompt handlers.
type sfmHandlers struct {
	products storage.ProductRepository
	daily    storage.DailyRepository
}

// SFM returns the product/NAV endpoint served at /mcp/sfm/sse.
func SFM(products storage.ProductRepository, daily storage.DailyRepository) Endpoint {
	h := &sfmHandlers{products: products, daily: daily}
	return Endpoint{
		Name:     "sfm",
		Version:  "1.0.0",
		SSEPath:  "/mcp/sfm/sse",
		Register: h.register,
	}
}

func (h *sfmHandlers) register(server *mcp.Server) {
	h.registerTools(server)
	h.registerResources(server)
	h.registerPrompts(server)
}

func (h *sfmHandlers) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_products",
		Description: "List all wealth-management products",
	}, h.handleListProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_product",
		Description: "Get the full product record for a product code",
	}, h.handleGetProduct)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_products",
		Description: "Find products whose name contains a fragment",
	}, h.handleSearchProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_nav",
		Description: "List daily NAV snapshots filtered by product code, valuation date, and/or transfer agent",
	}, h.handleListNav)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_nav",
		Description: "Get the NAV snapshot of one product on one valuation date",
	}, h.handleGetNav)
}

// Tool input/output types

type listProductsInput struct{}

type getProductInput struct {
	PrdCode string `json:"prd_code" jsonschema:"Product code"`
}

type searchProductsInput struct {
	Name string `json:"name" jsonschema:"Substring of the product name"`
}

type listNavInput struct {
	PrdCode string `json:"prd_code,omitempty" jsonschema:"Filter by product code"`
	IssDate string `json:"iss_date,omitempty" jsonschema:"Filter by valuation date (YYYYMMDD or YYYY-MM-DD)"`
	TaCode  string `json:"ta_code,omitempty" jsonschema:"Filter by transfer agent code"`
}

type getNavInput struct {
	PrdCode string `json:"prd_code" jsonschema:"Product code"`
	IssDate string `json:"iss_date" jsonschema:"Valuation date (YYYYMMDD or YYYY-MM-DD)"`
}

type productSummary struct {
	Code      string `json:"prd_code"`
	Name      string `json:"prd_name"`
	TaCode    string `json:"ta_code,omitempty"`
	RiskLevel string `json:"risk_level,omitempty"`
	Status    string `json:"prd_status,omitempty"`
	Currency  string `json:"curr_type,omitempty"`
	Nav       string `json:"nav,omitempty"`
	NavDate   string `json:"nav_date,omitempty"`
}

type productListOutput struct {
	Count    int              `json:"count"`
	Products []productSummary `json:"products"`
}

type productOutput struct {
	Found   bool            `json:"found"`
	PrdCode string          `json:"prd_code"`
	Product *models.Product `json:"product,omitempty"`
}

type navRow struct {
	PrdCode     string `json:"prd_code"`
	TaCode      string `json:"ta_code,omitempty"`
	IssDate     string `json:"iss_date"`
	CfmDate     string `json:"cfm_date,omitempty"`
	Nav         string `json:"nav,omitempty"`
	TotNav      string `json:"tot_nav,omitempty"`
	SevenRate   string `json:"seven_rate,omitempty"`
	TenthIncome string `json:"tenth_income,omitempty"`
	Status      string `json:"prd_status,omitempty"`
}

type navListOutput struct {
	Count     int      `json:"count"`
	Snapshots []navRow `json:"snapshots"`
}

type navOutput struct {
	Found    bool    `json:"found"`
	PrdCode  string  `json:"prd_code"`
	IssDate  string  `json:"iss_date"`
	Snapshot *navRow `json:"snapshot,omitempty"`
}

// Tool handlers

func (h *sfmHandlers) handleListProducts(ctx context.Context, req *mcp.CallToolRequest, input listProductsInput) (*mcp.CallToolResult, any, error) {
	products, err := h.products.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list products: %w", err)
	}
	return nil, summarize(products), nil
}

func (h *sfmHandlers) handleGetProduct(ctx context.Context, req *mcp.CallToolRequest, input getProductInput) (*mcp.CallToolResult, any, error) {
	if input.PrdCode == "" {
		return nil, nil, fmt.Errorf("prd_code is required")
	}

	p, err := h.products.FindByCode(ctx, input.PrdCode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get product: %w", err)
	}
	return nil, productOutput{Found: p != nil, PrdCode: input.PrdCode, Product: p}, nil
}

func (h *sfmHandlers) handleSearchProducts(ctx context.Context, req *mcp.CallToolRequest, input searchProductsInput) (*mcp.CallToolResult, any, error) {
	products, err := h.products.SearchByName(ctx, input.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search products: %w", err)
	}
	return nil, summarize(products), nil
}

func (h *sfmHandlers) handleListNav(ctx context.Context, req *mcp.CallToolRequest, input listNavInput) (*mcp.CallToolResult, any, error) {
	snapshots, err := filterSnapshots(ctx, h.daily, input.PrdCode, input.IssDate, input.TaCode)
	if err != nil {
		return nil, nil, err
	}

	out := navListOutput{Count: len(snapshots), Snapshots: make([]navRow, 0, len(snapshots))}
	for _, s := range snapshots {
		out.Snapshots = append(out.Snapshots, toNavRow(s))
	}
	return nil, out, nil
}

func (h *sfmHandlers) handleGetNav(ctx context.Context, req *mcp.CallToolRequest, input getNavInput) (*mcp.CallToolResult, any, error) {
	if input.PrdCode == "" {
		return nil, nil, fmt.Errorf("prd_code is required")
	}
	date, err := models.ParseDate(input.IssDate)
	if err != nil {
		return nil, nil, err
	}

	s, err := h.daily.FindByCodeAndDate(ctx, input.PrdCode, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get nav: %w", err)
	}

	out := navOutput{Found: s != nil, PrdCode: input.PrdCode, IssDate: date.String()}
	if s != nil {
		row := toNavRow(s)
		out.Snapshot = &row
	}
	return nil, out, nil
}

// filterSnapshots parses the optional date filter and runs the NAV query.
func filterSnapshots(ctx context.Context, daily storage.DailyRepository, prdCode, issDate, taCode string) ([]*models.DailySnapshot, error) {
	f := storage.NavFilter{PrdCode: prdCode, TaCode: taCode}
	if issDate != "" {
		d, err := models.ParseDate(issDate)
		if err != nil {
			return nil, err
		}
		f.IssDate = d
	}

	snapshots, err := storage.QueryNav(ctx, daily, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list nav: %w", err)
	}
	return snapshots, nil
}

func summarize(products []*models.Product) productListOutput {
	out := productListOutput{Count: len(products), Products: make([]productSummary, 0, len(products))}
	for _, p := range products {
		out.Products = append(out.Products, productSummary{
			Code:      p.PrdCode,
			Name:      p.DisplayName(),
			TaCode:    p.TaCode,
			RiskLevel: p.RiskLevel,
			Status:    p.PrdStatus,
			Currency:  p.CurrType,
			Nav:       decimalString(p.Nav),
			NavDate:   p.NavDate.String(),
		})
	}
	return out
}

func toNavRow(s *models.DailySnapshot) navRow {
	return navRow{
		PrdCode:     s.PrdCode,
		TaCode:      s.TaCode,
		IssDate:     s.IssDate.String(),
		CfmDate:     s.CfmDate.String(),
		Nav:         decimalString(s.Nav),
		TotNav:      decimalString(s.TotNav),
		SevenRate:   decimalString(s.SevenRate),
		TenthIncome: decimalString(s.TenthIncome),
		Status:      s.PrdStatus,
	}
}

func decimalString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
