package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nivke/invoiceflow/internal/cli"
	"github.com/nivke/invoiceflow/internal/common"
	"github.com/nivke/invoiceflow/internal/daterange"
)

func scanCmd() *cobra.Command {
	var (
		quick    string
		from, to string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the mailbox for new invoices",
		Long:  `Ask the backend to scan the connected mailbox for invoice emails in the given date range and ingest what it finds.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			dates, err := resolveRange(quick, from, to)
			if err != nil {
				return err
			}
			if dates.Start == "" || dates.End == "" {
				return fmt.Errorf("scan requires a bounded range: use --range or both --from and --to")
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatInfo(fmt.Sprintf("Scanning %s to %s...",
				daterange.ToDisplay(dates.Start), daterange.ToDisplay(dates.End))))

			result, err := client.Scan(ctx, dates.Start, dates.End)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			common.LogInfo("scan complete", common.Fields{
				"emails_scanned": result.TotalEmailsScanned,
				"invoices_found": result.InvoicesFound,
			})
			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Scanned %d emails, found %d invoices", result.TotalEmailsScanned, result.InvoicesFound)))
			for _, inv := range result.Invoices {
				fmt.Printf("  %s  %s  %s\n", daterange.ToDisplay(inv.InvoiceDate), inv.VendorName, inv.Subject)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&quick, "range", "", "quick date range: this-month, last-month, this-year, last-year")
	cmd.Flags().StringVar(&from, "from", "", "start date (DD/MM/YYYY)")
	cmd.Flags().StringVar(&to, "to", "", "end date (DD/MM/YYYY)")

	return cmd
}
