package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nivke/invoiceflow/internal/cli"
	"github.com/nivke/invoiceflow/internal/common"
	"github.com/nivke/invoiceflow/internal/model"
	"github.com/nivke/invoiceflow/internal/view"
)

func labelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Manage labels",
		Long:  `List, add, and remove the labels used to tag invoices.`,
	}

	cmd.AddCommand(listLabelsCmd())
	cmd.AddCommand(addLabelCmd())
	cmd.AddCommand(removeLabelCmd())

	return cmd
}

func listLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all labels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			labels, err := client.Labels(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get labels: %w", err)
			}

			if len(labels) == 0 {
				fmt.Println(cli.FormatInfo("No labels yet. Use 'invoiceflow labels add' to create one."))
				return nil
			}
			for _, label := range labels {
				fmt.Println(cli.LabelStyle(label).Render("● " + label))
			}
			return nil
		},
	}
}

func addLabelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			labels, err := client.CreateLabel(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, common.ErrLabelExists) {
					return fmt.Errorf("label %q already exists", args[0])
				}
				return fmt.Errorf("failed to create label: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created %q (%d labels total)", args[0], len(labels))))
			return nil
		},
	}
}

func removeLabelCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a label",
		Long: `Remove a label from the label set. Removal is refused while any invoice
still carries the label; --force removes it from those invoices first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			client, err := newClient()
			if err != nil {
				return err
			}

			invoices, err := client.Invoices(ctx)
			if err != nil {
				return err
			}
			var carriers []model.Invoice
			for i := range invoices {
				if invoices[i].HasLabel(name) {
					carriers = append(carriers, invoices[i])
				}
			}
			if len(carriers) > 0 {
				if !force {
					// refuse while in use so a typo cannot silently strip tags
					return &common.LabelInUseError{Label: name, Count: len(carriers)}
				}
				byID := make(map[string]model.Invoice, len(carriers))
				ids := make([]string, len(carriers))
				for i := range carriers {
					rec := carriers[i].Clone()
					rec.RemoveLabel(name)
					byID[rec.ID] = rec
					ids[i] = rec.ID
				}
				results := view.FanOut(ctx, ids, bulkWorkers(), func(ctx context.Context, id string) error {
					_, updateErr := client.UpdateInvoice(ctx, byID[id])
					return updateErr
				})
				if failed := view.Failures(results); len(failed) > 0 {
					return fmt.Errorf("label still carried by %d invoices after --force strip", len(failed))
				}
				fmt.Println(cli.FormatInfo(fmt.Sprintf("Stripped %q from %d invoices", name, len(carriers))))
			}

			labels, err := client.DeleteLabel(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to remove label: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed %q (%d labels remain)", name, len(labels))))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "remove even if invoices still carry the label")
	return cmd
}
