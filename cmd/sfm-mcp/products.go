// ABOUTME: CLI commands for querying the product master.
// ABOUTME: list, show and search mirror the MCP product tools.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/trans/sfm-mcp/internal/models"
)

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"product", "p"},
	Short:   "Query products",
	Long: `Query the product master table.

OUTPUT FORMAT:

  Each line shows: CODE  TA  RISK  NAV  NAV-DATE  NAME

EXAMPLES:

  sfm-mcp products list            # every product
  sfm-mcp products show P001       # one product in detail
  sfm-mcp products search 稳健      # name contains "稳健"`,
}

var productsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List every product",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := store.Products.ListAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}
		printProducts(cmd.OutOrStdout(), products)
		return nil
	},
}

var productsShowCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := store.Products.FindByCode(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to find product: %w", err)
		}
		out := cmd.OutOrStdout()
		if p == nil {
			fmt.Fprintf(out, "No product with code %s.\n", args[0])
			return nil
		}
		printProductDetail(out, p)
		return nil
	},
}

var productsSearchCmd = &cobra.Command{
	Use:   "search <fragment>",
	Short: "Search products by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := store.Products.SearchByName(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to search products: %w", err)
		}
		printProducts(cmd.OutOrStdout(), products)
		return nil
	},
}

func printProducts(out io.Writer, products []*models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(out, "No products found.")
		return
	}

	faint := color.New(color.Faint)
	for _, p := range products {
		fmt.Fprintf(out, "%s %s %s %s %s %s\n",
			faint.Sprint(padRight(p.PrdCode, 12)),
			padRight(p.TaCode, 6),
			padRight(p.RiskLevel, 4),
			padRight(decimalOrDash(p.Nav), 12),
			faint.Sprint(padRight(p.NavDate.String(), 10)),
			truncate(p.DisplayName(), 40))
	}
}

func printProductDetail(out io.Writer, p *models.Product) {
	bold := color.New(color.Bold)
	fmt.Fprintf(out, "%s  %s\n\n", bold.Sprint(p.PrdCode), p.DisplayName())

	rows := [][2]string{
		{"Short name", p.PrdShortName},
		{"TA", p.TaCode},
		{"Risk", p.RiskLevelLabel()},
		{"Status", p.PrdStatus},
		{"Currency", p.CurrType},
		{"NAV", decimalOrDash(p.Nav)},
		{"Cumulative NAV", decimalOrDash(p.TotNav)},
		{"NAV date", p.NavDate.String()},
		{"Established", p.EstabDate.String()},
		{"End date", p.EndDate.String()},
		{"Manager", p.PrdManager},
		{"Benchmark", p.PrdBenchmark},
	}
	faint := color.New(color.Faint)
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(out, "  %s %s\n", faint.Sprint(padRight(r[0], 16)), r[1])
	}
}

func decimalOrDash(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.String()
}

// truncate shortens s to maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

func init() {
	productsCmd.AddCommand(productsListCmd, productsShowCmd, productsSearchCmd)
	rootCmd.AddCommand(productsCmd)
}
