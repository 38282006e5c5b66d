package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nivke/invoiceflow/internal/cli"
)

func analyticsCmd() *cobra.Command {
	var (
		quick    string
		from, to string
	)

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show spending analytics",
		Long:  `Summarize invoice totals, monthly spending, and label distribution for a date range.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			dates, err := resolveRange(quick, from, to)
			if err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			summary, err := client.Analytics(ctx, dates.Start, dates.End)
			if err != nil {
				return fmt.Errorf("failed to get analytics: %w", err)
			}

			fmt.Println(cli.FormatTitle("Spending Summary"))
			fmt.Printf("  total: %.2f across %d invoices\n\n", summary.TotalAmount, summary.TotalCount)

			if len(summary.MonthlyBreakdown) > 0 {
				fmt.Println(cli.FormatTitle("By Month"))
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				maxAmount := 0.0
				for _, b := range summary.MonthlyBreakdown {
					if b.Amount > maxAmount {
						maxAmount = b.Amount
					}
				}
				for _, b := range summary.MonthlyBreakdown {
					fmt.Fprintf(w, "  %s\t%.2f\t%s\n", b.Month, b.Amount, bar(b.Amount, maxAmount))
				}
				_ = w.Flush()
				fmt.Println()
			}

			if len(summary.LabelBreakdown) > 0 {
				fmt.Println(cli.FormatTitle("By Label"))
				buckets := summary.LabelBreakdown
				sort.Slice(buckets, func(i, j int) bool { return buckets[i].Value > buckets[j].Value })
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				for _, b := range buckets {
					fmt.Fprintf(w, "  %s\t%.2f\n", cli.LabelStyle(b.Name).Render(b.Name), b.Value)
				}
				_ = w.Flush()
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&quick, "range", "", "quick date range: this-month, last-month, this-year, last-year")
	cmd.Flags().StringVar(&from, "from", "", "start date (DD/MM/YYYY)")
	cmd.Flags().StringVar(&to, "to", "", "end date (DD/MM/YYYY)")

	return cmd
}

// bar renders a simple proportional bar for terminal histograms.
func bar(value, maxValue float64) string {
	const width = 30
	if maxValue <= 0 {
		return ""
	}
	n := int(value / maxValue * width)
	if n < 1 && value > 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
