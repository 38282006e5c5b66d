package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/nivke/invoiceflow/internal/cli"
	"github.com/nivke/invoiceflow/internal/common"
	"github.com/nivke/invoiceflow/internal/daterange"
	"github.com/nivke/invoiceflow/internal/export"
	"github.com/nivke/invoiceflow/internal/model"
	"github.com/nivke/invoiceflow/internal/service"
	"github.com/nivke/invoiceflow/internal/view"
)

func invoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "List, edit, and bulk-manage invoices",
		Long:  `Browse the invoice table with filters and sorting, edit single records, and run bulk operations on many invoices at once.`,
	}

	cmd.AddCommand(listInvoicesCmd())
	cmd.AddCommand(editInvoiceCmd())
	cmd.AddCommand(addInvoiceCmd())
	cmd.AddCommand(deleteInvoicesCmd())
	cmd.AddCommand(setStatusCmd())
	cmd.AddCommand(addLabelToInvoicesCmd())
	cmd.AddCommand(exportInvoicesCmd())

	return cmd
}

func listInvoicesCmd() *cobra.Command {
	var (
		query     string
		statuses  []string
		labels    []string
		quick     string
		from, to  string
		sortKey   string
		sortDesc  bool
		page      int
		pageSize  int
		csvPath   string
		useCached bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		Long:  `Display the invoice table. Filters combine with AND; within the status and label filters, multiple values combine with OR.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			invoices, err := fetchInvoices(ctx, useCached)
			if err != nil {
				return err
			}

			state := view.NewState()
			state = state.WithQuery(query)
			for _, raw := range statuses {
				status, parseErr := model.ParseStatus(raw)
				if parseErr != nil {
					return parseErr
				}
				state = state.ToggleStatus(status)
			}
			for _, label := range labels {
				state = state.ToggleLabel(label)
			}
			dates, err := resolveRange(quick, from, to)
			if err != nil {
				return err
			}
			state = state.WithDateRange(dates)
			if sortKey != "" {
				key, sortErr := parseSortKey(sortKey)
				if sortErr != nil {
					return sortErr
				}
				state = state.WithSort(key)
				if state.SortDesc != sortDesc {
					state = state.WithSort(key)
				}
			} else if !sortDesc {
				// default sort is date descending; flip to ascending on request
				state = state.WithSort(view.SortDate)
			}
			if pageSize != 0 {
				state = state.WithPageSize(pageSize)
			}
			if page > 1 {
				state = state.WithPage(page)
			}

			vw := state.Apply(invoices)

			if csvPath != "" {
				data := export.CSV(vw.Filtered)
				if err := os.WriteFile(csvPath, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", csvPath, err)
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d invoices to %s", len(vw.Filtered), csvPath)))
				return nil
			}

			printInvoiceTable(vw)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive text filter on vendor and subject")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "status filter (repeatable: pending, warning, processed, cancelled)")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "label filter (repeatable, exact match)")
	cmd.Flags().StringVar(&quick, "range", "", "quick date range: this-month, last-month, this-year, last-year")
	cmd.Flags().StringVar(&from, "from", "", "start date (DD/MM/YYYY, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "end date (DD/MM/YYYY, inclusive)")
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort column: date, vendor, subject, total, vat, status")
	cmd.Flags().BoolVar(&sortDesc, "desc", true, "sort descending")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page (10, 20, 50, 100)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write all filtered rows to a CSV file instead of printing")
	cmd.Flags().BoolVar(&useCached, "cached", false, "read from the local snapshot instead of the server")

	return cmd
}

// fetchInvoices loads from the server and refreshes the snapshot cache, or
// serves the cache directly when asked (or when the server is down).
func fetchInvoices(ctx context.Context, cached bool) ([]model.Invoice, error) {
	store, err := openSnapshots()
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	if cached {
		invoices, fetchedAt, loadErr := store.LoadSnapshot(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if fetchedAt.IsZero() {
			return nil, common.NewUserError("no cached snapshot yet; run without --cached first", nil)
		}
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Using snapshot from %s", fetchedAt.Format("2006-01-02 15:04"))))
		return invoices, nil
	}

	client, err := newClient()
	if err != nil {
		return nil, err
	}
	invoices, err := client.Invoices(ctx)
	if err != nil {
		cachedInvoices, fetchedAt, loadErr := store.LoadSnapshot(ctx)
		if loadErr == nil && !fetchedAt.IsZero() {
			common.LogError(err, "falling back to snapshot", common.Fields{
				"fetched_at": fetchedAt,
			})
			fmt.Println(cli.FormatWarning(fmt.Sprintf(
				"Server unreachable, using snapshot from %s", fetchedAt.Format("2006-01-02 15:04"))))
			return cachedInvoices, nil
		}
		return nil, err
	}
	if saveErr := store.SaveSnapshot(ctx, invoices); saveErr != nil {
		common.LogError(saveErr, "saving snapshot", nil)
	}
	return invoices, nil
}

func printInvoiceTable(vw view.View) {
	if len(vw.Rows) == 0 {
		fmt.Println(cli.FormatInfo("No invoices match the current filters."))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintln(w, "ID\tDate\tVendor\tSubject\tTotal\tCur\tStatus\tLabels")
	for _, inv := range vw.Rows {
		total := ""
		if inv.TotalAmount != nil {
			total = fmt.Sprintf("%.2f", *inv.TotalAmount)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.ID,
			daterange.ToDisplay(inv.InvoiceDate),
			inv.VendorName,
			inv.Subject,
			total,
			inv.Currency,
			cli.StatusStyle(inv.Status).Render(string(inv.Status)),
			strings.Join(inv.Labels, ","),
		)
	}
	_ = w.Flush()
	fmt.Printf("\npage %d/%d · showing %d of %d invoices\n", vw.Page, vw.TotalPages, len(vw.Rows), vw.Total)
}

func parseSortKey(s string) (view.SortKey, error) {
	switch strings.ToLower(s) {
	case "date":
		return view.SortDate, nil
	case "vendor":
		return view.SortVendor, nil
	case "subject":
		return view.SortSubject, nil
	case "total", "amount":
		return view.SortTotal, nil
	case "vat":
		return view.SortVAT, nil
	case "status":
		return view.SortStatus, nil
	default:
		return "", fmt.Errorf("unknown sort column %q", s)
	}
}

func editInvoiceCmd() *cobra.Command {
	var (
		vendor   string
		date     string
		totalStr string
		vatStr   string
		currency string
		status   string
		labels   []string
		comments string
		filePath string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit one invoice",
		Long: `Update fields on a single invoice. Setting --total recomputes the VAT
portion from the embedded 18% rate unless --vat overrides it. With --file,
the document is uploaded first and the field edits are applied on top of
the record the upload returns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			client, err := newClient()
			if err != nil {
				return err
			}

			original, err := findByID(ctx, client, id)
			if err != nil {
				return err
			}

			if filePath != "" {
				f, openErr := os.Open(filePath)
				if openErr != nil {
					return fmt.Errorf("failed to open %s: %w", filePath, openErr)
				}
				uploaded, upErr := client.UploadFile(ctx, id, filepath.Base(filePath), f)
				_ = f.Close()
				if upErr != nil {
					return fmt.Errorf("upload failed: %w", upErr)
				}
				original = *uploaded
				fmt.Println(cli.FormatSuccess("Uploaded " + filePath))
			}

			buf := view.NewEditBuffer(original)
			if cmd.Flags().Changed("vendor") {
				buf.VendorName = vendor
			}
			if cmd.Flags().Changed("date") {
				iso, parseErr := daterange.ParseDisplay(date)
				if parseErr != nil {
					return parseErr
				}
				buf.InvoiceDate = iso
			}
			if cmd.Flags().Changed("total") {
				total, parseErr := parseAmount(totalStr)
				if parseErr != nil {
					return fmt.Errorf("invalid --total: %w", parseErr)
				}
				buf.SetTotal(total)
			}
			if cmd.Flags().Changed("vat") {
				vat, parseErr := parseAmount(vatStr)
				if parseErr != nil {
					return fmt.Errorf("invalid --vat: %w", parseErr)
				}
				buf.SetVAT(vat)
			}
			if cmd.Flags().Changed("currency") {
				buf.Currency = model.Currency(strings.ToUpper(currency))
			}
			if cmd.Flags().Changed("status") {
				parsed, parseErr := model.ParseStatus(status)
				if parseErr != nil {
					return parseErr
				}
				buf.Status = parsed
			}
			if cmd.Flags().Changed("label") {
				buf.Labels = labels
			}
			if cmd.Flags().Changed("comments") {
				buf.Comments = comments
			}

			saved, err := client.UpdateInvoice(ctx, buf.Merge(original))
			if err != nil {
				return fmt.Errorf("failed to save invoice: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved %s (%s, %s)", saved.ID, saved.VendorName, saved.Status)))
			return nil
		},
	}

	cmd.Flags().StringVar(&vendor, "vendor", "", "vendor name")
	cmd.Flags().StringVar(&date, "date", "", "invoice date (DD/MM/YYYY)")
	cmd.Flags().StringVar(&totalStr, "total", "", "total amount (recomputes VAT)")
	cmd.Flags().StringVar(&vatStr, "vat", "", "VAT amount (overrides the derived value)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (ILS, USD, EUR)")
	cmd.Flags().StringVar(&status, "status", "", "status (pending, warning, processed, cancelled)")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "replace the label set (repeatable)")
	cmd.Flags().StringVar(&comments, "comments", "", "free-text comments")
	cmd.Flags().StringVar(&filePath, "file", "", "attach a document before applying edits")

	return cmd
}

func addInvoiceCmd() *cobra.Command {
	var (
		vendor   string
		date     string
		subject  string
		totalStr string
		vatStr   string
		currency string
		status   string
		labels   []string
		comments string
		filePath string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an invoice manually",
		Long:  `Create an invoice record by hand, optionally attaching a document file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if date == "" {
				return fmt.Errorf("--date is required")
			}
			iso, err := daterange.ParseDisplay(date)
			if err != nil {
				return err
			}

			inv := model.Invoice{
				VendorName:  vendor,
				InvoiceDate: iso,
				Subject:     subject,
				Currency:    model.CurrencyILS,
				Status:      model.StatusPending,
				Labels:      labels,
				Comments:    comments,
			}
			if currency != "" {
				inv.Currency = model.Currency(strings.ToUpper(currency))
			}
			if status != "" {
				parsed, parseErr := model.ParseStatus(status)
				if parseErr != nil {
					return parseErr
				}
				inv.Status = parsed
			}
			if totalStr != "" {
				total, parseErr := parseAmount(totalStr)
				if parseErr != nil {
					return fmt.Errorf("invalid --total: %w", parseErr)
				}
				inv.TotalAmount = &total
				vat := view.DeriveVAT(total)
				inv.VatAmount = &vat
			}
			if vatStr != "" {
				vat, parseErr := parseAmount(vatStr)
				if parseErr != nil {
					return fmt.Errorf("invalid --vat: %w", parseErr)
				}
				inv.VatAmount = &vat
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			var file *os.File
			filename := ""
			if filePath != "" {
				if file, err = os.Open(filePath); err != nil {
					return fmt.Errorf("failed to open %s: %w", filePath, err)
				}
				defer func() { _ = file.Close() }()
				filename = filepath.Base(filePath)
			}

			created, err := client.CreateManual(ctx, inv, filename, fileReader(file))
			if err != nil {
				return fmt.Errorf("failed to create invoice: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created %s (%s)", created.ID, created.VendorName)))
			return nil
		},
	}

	cmd.Flags().StringVar(&vendor, "vendor", "", "vendor name")
	cmd.Flags().StringVar(&date, "date", "", "invoice date (DD/MM/YYYY, required)")
	cmd.Flags().StringVar(&subject, "subject", "", "subject line")
	cmd.Flags().StringVar(&totalStr, "total", "", "total amount")
	cmd.Flags().StringVar(&vatStr, "vat", "", "VAT amount (defaults to the derived 18% portion)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (default ILS)")
	cmd.Flags().StringVar(&status, "status", "", "status (default pending)")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "label (repeatable)")
	cmd.Flags().StringVar(&comments, "comments", "", "free-text comments")
	cmd.Flags().StringVar(&filePath, "file", "", "document file to attach")

	return cmd
}

func deleteInvoicesCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete invoices",
		Long:  `Delete one or more invoices. Each deletion is attempted independently; a failure on one id does not stop the rest.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !force {
				ok, err := cli.Confirm(ctx, os.Stdin, os.Stdout,
					fmt.Sprintf("Delete %d invoice(s)?", len(args)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.FormatInfo("Cancelled."))
					return nil
				}
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			results := runBulk(ctx, "Deleting invoices", args, func(ctx context.Context, id string) error {
				return client.DeleteInvoice(ctx, id)
			})
			return reportBulk("deleted", results)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}

func setStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <status> <id>...",
		Short: "Set a status on invoices",
		Long:  `Apply a status to one or more invoices with independent per-id requests.`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			status, err := model.ParseStatus(args[0])
			if err != nil {
				return err
			}
			ids := args[1:]

			client, err := newClient()
			if err != nil {
				return err
			}

			invoices, err := client.Invoices(ctx)
			if err != nil {
				return err
			}
			records := view.BulkStatusRecords(invoices, ids, status)
			if len(records) != len(ids) {
				return fmt.Errorf("%d of %d ids not found", len(ids)-len(records), len(ids))
			}

			results := bulkUpdate(ctx, client, fmt.Sprintf("Setting status %s", status), records)
			return reportBulk("updated", results)
		},
	}
}

func addLabelToInvoicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-label <label> <id>...",
		Short: "Add a label to invoices",
		Long:  `Append a label to one or more invoices. Invoices that already carry the label are skipped.`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			label := args[0]
			ids := args[1:]

			client, err := newClient()
			if err != nil {
				return err
			}

			invoices, err := client.Invoices(ctx)
			if err != nil {
				return err
			}
			records := view.BulkLabelRecords(invoices, ids, label)
			if len(records) == 0 {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("All given invoices already have %q.", label)))
				return nil
			}

			results := bulkUpdate(ctx, client, fmt.Sprintf("Adding label %s", label), records)
			return reportBulk("labeled", results)
		},
	}
}

func exportInvoicesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <pdf|zip> <id>...",
		Short: "Export invoice documents",
		Long:  `Download the merged PDF or a ZIP archive of the given invoices' documents.`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format := strings.ToLower(args[0])
			ids := args[1:]

			client, err := newClient()
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "pdf":
				data, err = client.ExportPDF(ctx, ids)
			case "zip":
				data, err = client.ExportZIP(ctx, ids)
			default:
				return fmt.Errorf("unknown export format %q (want pdf or zip)", format)
			}
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			path := output
			if path == "" {
				path = "invoices." + format
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Wrote %d bytes to %s", len(data), path)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default invoices.pdf / invoices.zip)")
	return cmd
}

// runBulk fans the operation out with bounded concurrency, driving a
// progress bar as per-id results land.
func runBulk(ctx context.Context, description string, ids []string, op func(context.Context, string) error) []view.BulkResult {
	bar := newBulkBar(len(ids), description)
	results := view.FanOut(ctx, ids, bulkWorkers(), func(ctx context.Context, id string) error {
		err := op(ctx, id)
		_ = bar.Add(1)
		return err
	})
	_ = bar.Finish()
	fmt.Println()
	return results
}

func bulkUpdate(ctx context.Context, api service.InvoiceAPI, description string, records []model.Invoice) []view.BulkResult {
	ids := make([]string, len(records))
	byID := make(map[string]model.Invoice, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
		byID[rec.ID] = rec
	}
	return runBulk(ctx, description, ids, func(ctx context.Context, id string) error {
		_, err := api.UpdateInvoice(ctx, byID[id])
		return err
	})
}

func newBulkBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]"+description+"...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// reportBulk prints the per-id outcome summary and returns an error when
// any id failed, so the process exit code reflects partial failure.
func reportBulk(verb string, results []view.BulkResult) error {
	failed := view.Failures(results)
	ok := len(results) - len(failed)
	if ok > 0 {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d invoice(s) %s", ok, verb)))
	}
	if len(failed) == 0 {
		return nil
	}
	for _, f := range failed {
		fmt.Println(cli.FormatError(fmt.Sprintf("%s: %v", f.ID, f.Err)))
	}
	return fmt.Errorf("%d of %d operations failed", len(failed), len(results))
}

func findByID(ctx context.Context, api service.InvoiceAPI, id string) (model.Invoice, error) {
	invoices, err := api.Invoices(ctx)
	if err != nil {
		return model.Invoice{}, err
	}
	for i := range invoices {
		if invoices[i].ID == id {
			return invoices[i], nil
		}
	}
	return model.Invoice{}, fmt.Errorf("invoice %s not found", id)
}
