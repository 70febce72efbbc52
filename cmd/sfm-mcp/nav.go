// ABOUTME: CLI commands for querying daily NAV snapshots.
// ABOUTME: Filters by product code, valuation date, and transfer agent.
package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trans/sfm-mcp/internal/models"
	"github.com/trans/sfm-mcp/internal/storage"
)

var (
	navCode string
	navDate string
	navTa   string
)

var navCmd = &cobra.Command{
	Use:   "nav",
	Short: "Query daily NAV snapshots",
	Long: `Query the daily NAV table.

Dates accept YYYYMMDD or YYYY-MM-DD.

OUTPUT FORMAT:

  Each line shows: DATE  CODE  TA  NAV  CUMULATIVE  7-DAY-YIELD  INCOME/10K

EXAMPLES:

  sfm-mcp nav list --code P001              # history of one product
  sfm-mcp nav list --date 2024-03-15        # every product on one day
  sfm-mcp nav list --ta TA1                 # everything one TA administers
  sfm-mcp nav show P001 20240315            # a single snapshot`,
}

var navListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List NAV snapshots",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := storage.NavFilter{PrdCode: navCode, TaCode: navTa}
		if navDate != "" {
			d, err := models.ParseDate(navDate)
			if err != nil {
				return err
			}
			filter.IssDate = d
		}

		snapshots, err := storage.QueryNav(cmd.Context(), store.Daily, filter)
		if err != nil {
			return fmt.Errorf("failed to list snapshots: %w", err)
		}
		printSnapshots(cmd.OutOrStdout(), snapshots)
		return nil
	},
}

var navShowCmd = &cobra.Command{
	Use:   "show <code> <date>",
	Short: "Show one NAV snapshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := models.ParseDate(args[1])
		if err != nil {
			return err
		}

		s, err := store.Daily.FindByCodeAndDate(cmd.Context(), args[0], d)
		if err != nil {
			return fmt.Errorf("failed to find snapshot: %w", err)
		}
		out := cmd.OutOrStdout()
		if s == nil {
			fmt.Fprintf(out, "No snapshot for %s on %s.\n", args[0], d)
			return nil
		}
		printSnapshots(out, []*models.DailySnapshot{s})
		return nil
	},
}

func printSnapshots(out io.Writer, snapshots []*models.DailySnapshot) {
	if len(snapshots) == 0 {
		fmt.Fprintln(out, "No snapshots found.")
		return
	}

	faint := color.New(color.Faint)
	for _, s := range snapshots {
		fmt.Fprintf(out, "%s %s %s %s %s %s %s\n",
			faint.Sprint(s.IssDate.String()),
			padRight(s.PrdCode, 12),
			padRight(s.TaCode, 6),
			padRight(decimalOrDash(s.Nav), 12),
			padRight(decimalOrDash(s.TotNav), 12),
			padRight(decimalOrDash(s.SevenRate), 10),
			decimalOrDash(s.TenthIncome))
	}
}

func init() {
	navListCmd.Flags().StringVar(&navCode, "code", "", "filter by product code")
	navListCmd.Flags().StringVarP(&navDate, "date", "d", "", "filter by valuation date")
	navListCmd.Flags().StringVar(&navTa, "ta", "", "filter by transfer agent code")

	navCmd.AddCommand(navListCmd, navShowCmd)
	rootCmd.AddCommand(navCmd)
}
