package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nivke/invoiceflow/internal/tui"
)

func flowCmd() *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Open the interactive invoice browser",
		Long: `Launch the full-screen invoice table: filter, sort, page, select, edit,
and run bulk actions interactively. When the server is unreachable the
browser falls back to the last cached snapshot read-only.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			store, err := openSnapshots()
			if err != nil {
				// the browser still works without the cache
				slog.Warn("snapshot cache unavailable", "error", err)
				store = nil
			}
			if store != nil {
				defer func() { _ = store.Close() }()
			}

			cfg := tui.Config{
				API:         client,
				BulkWorkers: viper.GetInt("bulk.workers"),
				CSVPath:     csvPath,
			}
			if store != nil {
				cfg.Store = store
			}
			return tui.Run(cfg)
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "path for the in-browser CSV export (default invoices_export.csv)")
	return cmd
}
