// ABOUTME: The "sfm" endpoint's resources and prompt.
// ABOUTME: Provides sfm://products, sfm://products/{prd_code}, and sfm://products/{prd_code}/nav.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/trans/sfm-mcp/internal/models"
)

const (
	productsURI    = "sfm://products"
	productsPrefix = productsURI + "/"
	navSuffix      = "/nav"
)

func (h *sfmHandlers) registerResources(server *mcp.Server) {
	// sfm://products - every product, summarized
	server.AddResource(&mcp.Resource{
		URI:         productsURI,
		Name:        "products",
		Description: "All wealth-management products",
		MIMEType:    "application/json",
	}, h.handleProductsResource)

	// sfm://products/{prd_code} - one full product record
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "product",
		URITemplate: productsPrefix + "{prd_code}",
		Description: "Full record of one product",
		MIMEType:    "application/json",
	}, h.handleProductResource)

	// sfm://products/{prd_code}/nav - NAV history of one product
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "product-nav",
		URITemplate: productsPrefix + "{prd_code}" + navSuffix,
		Description: "Daily NAV history of one product",
		MIMEType:    "application/json",
	}, h.handleProductResource)
}

func (h *sfmHandlers) registerPrompts(server *mcp.Server) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "explainProduct",
		Description: "Ask the assistant to explain a product using its latest NAV",
		Arguments: []*mcp.PromptArgument{{
			Name:        "prd_code",
			Description: "Product code",
			Required:    true,
		}},
	}, h.handleExplainProduct)
}

// Resource handlers

func (h *sfmHandlers) handleProductsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	products, err := h.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return jsonResource(productsURI, summarize(products))
}

// handleProductResource serves both product templates; the URI decides which.
func (h *sfmHandlers) handleProductResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	code, wantNav, ok := parseProductURI(uri)
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	if wantNav {
		snapshots, err := filterSnapshots(ctx, h.daily, code, "", "")
		if err != nil {
			return nil, err
		}
		rows := make([]navRow, 0, len(snapshots))
		for _, s := range snapshots {
			rows = append(rows, toNavRow(s))
		}
		return jsonResource(uri, navListOutput{Count: len(rows), Snapshots: rows})
	}

	p, err := h.products.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if p == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return jsonResource(uri, p)
}

// parseProductURI splits sfm://products/{prd_code}[/nav].
func parseProductURI(uri string) (code string, nav bool, ok bool) {
	rest, found := strings.CutPrefix(uri, productsPrefix)
	if !found {
		return "", false, false
	}
	rest, nav = strings.CutSuffix(rest, navSuffix)
	code, err := url.PathUnescape(rest)
	if err != nil || code == "" || strings.Contains(code, "/") {
		return "", false, false
	}
	return code, nav, true
}

func (h *sfmHandlers) handleExplainProduct(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	code := req.Params.Arguments["prd_code"]
	if code == "" {
		return nil, fmt.Errorf("missing required argument: prd_code")
	}

	p, err := h.products.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("product not found: %s", code)
	}

	snapshots, err := h.daily.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get nav: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "请解释一下理财产品'%s'（代码 %s）。", p.DisplayName(), p.PrdCode)
	if p.RiskLevel != "" {
		fmt.Fprintf(&sb, "风险等级：%s。", p.RiskLevelLabel())
	}
	if latest := models.Latest(snapshots); latest != nil && latest.Nav.Valid {
		fmt.Fprintf(&sb, "最新净值：%s（%s）。", latest.Nav.Decimal.String(), latest.IssDate)
	}

	return &mcp.GetPromptResult{
		Description: "Explain a product",
		Messages: []*mcp.PromptMessage{{
			Role:    "user",
			Content: &mcp.TextContent{Text: sb.String()},
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
