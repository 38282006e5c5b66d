package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nivke/invoiceflow/internal/cli"
	"github.com/nivke/invoiceflow/internal/model"
	"github.com/nivke/invoiceflow/internal/service"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage automation rules",
		Long: `Rules apply actions (set status, add labels, delete) to invoices whose
fields match their conditions. Conditions use a field:operator:value
syntax, for example:

  invoiceflow rules add "Flag AWS" \
      --when vendor_name:contains:amazon \
      --when total_amount:gt:100 \
      --then add_label:cloud \
      --then set_status:warning`,
	}

	cmd.AddCommand(listRulesCmd())
	cmd.AddCommand(addRuleCmd())
	cmd.AddCommand(editRuleCmd())
	cmd.AddCommand(deleteRuleCmd())
	cmd.AddCommand(toggleRuleCmd("enable", true))
	cmd.AddCommand(toggleRuleCmd("disable", false))
	cmd.AddCommand(applyRulesCmd())
	cmd.AddCommand(previewRuleCmd())

	return cmd
}

func listRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			rules, err := client.Rules(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println(cli.FormatInfo("No rules yet. Use 'invoiceflow rules add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tName\tActive\tLogic\tConditions\tActions")
			for _, rule := range rules {
				active := "yes"
				if !rule.IsActive {
					active = "no"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					rule.ID,
					rule.Name,
					active,
					rule.Logic,
					formatConditions(rule.Conditions),
					formatActions(rule.Actions),
				)
			}
			return nil
		},
	}
}

func addRuleCmd() *cobra.Command {
	var (
		whens    []string
		thens    []string
		logic    string
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule := model.Rule{
				ID:       uuid.NewString(),
				Name:     args[0],
				IsActive: !inactive,
				Logic:    model.RuleLogic(strings.ToUpper(logic)),
			}

			var err error
			if rule.Conditions, err = parseConditions(whens); err != nil {
				return err
			}
			if rule.Actions, err = parseActions(thens); err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			created, err := client.CreateRule(cmd.Context(), rule)
			if err != nil {
				return fmt.Errorf("failed to create rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created rule %q (%s)", created.Name, created.ID)))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&whens, "when", nil, "condition as field:operator:value (repeatable)")
	cmd.Flags().StringArrayVar(&thens, "then", nil, "action as type:value (repeatable)")
	cmd.Flags().StringVar(&logic, "logic", "AND", "condition combinator: AND or OR")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the rule disabled")

	return cmd
}

func editRuleCmd() *cobra.Command {
	var (
		name  string
		whens []string
		thens []string
		logic string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a rule",
		Long:  `Replace parts of a rule. --when and --then replace the whole condition or action list when given.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := newClient()
			if err != nil {
				return err
			}

			rule, err := findRule(ctx, client, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				rule.Name = name
			}
			if cmd.Flags().Changed("logic") {
				rule.Logic = model.RuleLogic(strings.ToUpper(logic))
			}
			if cmd.Flags().Changed("when") {
				if rule.Conditions, err = parseConditions(whens); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("then") {
				if rule.Actions, err = parseActions(thens); err != nil {
					return err
				}
			}

			updated, err := client.UpdateRule(ctx, rule)
			if err != nil {
				return fmt.Errorf("failed to update rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated rule %q", updated.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "rule name")
	cmd.Flags().StringArrayVar(&whens, "when", nil, "replace conditions (field:operator:value, repeatable)")
	cmd.Flags().StringArrayVar(&thens, "then", nil, "replace actions (type:value, repeatable)")
	cmd.Flags().StringVar(&logic, "logic", "", "condition combinator: AND or OR")

	return cmd
}

func deleteRuleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			if err := client.DeleteRule(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete rule: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Deleted rule " + args[0]))
			return nil
		},
	}
}

func toggleRuleCmd(use string, active bool) *cobra.Command {
	short := "Disable a rule"
	if active {
		short = "Enable a rule"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := newClient()
			if err != nil {
				return err
			}

			rule, err := findRule(ctx, client, args[0])
			if err != nil {
				return err
			}
			if rule.IsActive == active {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("Rule %q is already %sd.", rule.Name, use)))
				return nil
			}

			rule.IsActive = active
			if _, err := client.UpdateRule(ctx, rule); err != nil {
				return fmt.Errorf("failed to update rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Rule %q %sd", rule.Name, use)))
			return nil
		},
	}
}

func applyRulesCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply all active rules to existing invoices",
		Long:  `Ask the server to run every active rule over the stored invoices. Rules with delete actions will remove invoices, so a confirmation is required.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !force {
				ok, err := cli.Confirm(ctx, os.Stdin, os.Stdout, "Apply all active rules to every invoice?")
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

			message, err := client.ApplyAllRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to apply rules: %w", err)
			}

			fmt.Println(cli.FormatSuccess(message))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}

func previewRuleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <id>",
		Short: "Show which invoices a rule would match",
		Long:  `Evaluate a rule locally against the stored invoices without changing anything. Inactive rules match nothing.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := newClient()
			if err != nil {
				return err
			}

			rule, err := findRule(ctx, client, args[0])
			if err != nil {
				return err
			}

			invoices, err := fetchInvoices(ctx, false)
			if err != nil {
				return err
			}

			matched := 0
			for i := range invoices {
				if rule.Matches(invoices[i]) {
					matched++
					fmt.Printf("  %s  %s  %s\n", invoices[i].ID, invoices[i].VendorName, invoices[i].Subject)
				}
			}

			if !rule.IsActive {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("Rule %q is disabled and matches nothing while inactive.", rule.Name)))
				return nil
			}
			fmt.Println(cli.FormatInfo(fmt.Sprintf("Rule %q matches %d of %d invoices.", rule.Name, matched, len(invoices))))
			return nil
		},
	}
}

// parseConditions parses the --when field:operator:value entries. The value
// may itself contain colons.
func parseConditions(raw []string) ([]model.Condition, error) {
	conditions := make([]model.Condition, 0, len(raw))
	for _, entry := range raw {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid condition %q: want field:operator:value", entry)
		}
		conditions = append(conditions, model.Condition{
			Field:    model.RuleField(parts[0]),
			Operator: model.RuleOperator(parts[1]),
			Value:    parts[2],
		})
	}
	return conditions, nil
}

// parseActions parses the --then type:value entries. delete_invoice takes no
// value.
func parseActions(raw []string) ([]model.Action, error) {
	actions := make([]model.Action, 0, len(raw))
	for _, entry := range raw {
		parts := strings.SplitN(entry, ":", 2)
		kind := model.ActionKind(parts[0])
		value := ""
		if len(parts) == 2 {
			value = parts[1]
		}
		if kind == model.ActionDeleteInvoice && value == "" {
			value = "true"
		}
		actions = append(actions, model.Action{Kind: kind, Value: value})
	}
	return actions, nil
}

func formatConditions(conditions []model.Condition) string {
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		parts[i] = fmt.Sprintf("%s %s %q", c.Field, c.Operator, c.Value)
	}
	return strings.Join(parts, "; ")
}

func formatActions(actions []model.Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		if a.Kind == model.ActionDeleteInvoice {
			parts[i] = string(a.Kind)
		} else {
			parts[i] = fmt.Sprintf("%s %q", a.Kind, a.Value)
		}
	}
	return strings.Join(parts, "; ")
}

// findRule fetches the rule list and picks the one with the given id.
func findRule(ctx context.Context, api service.InvoiceAPI, id string) (model.Rule, error) {
	rules, err := api.Rules(ctx)
	if err != nil {
		return model.Rule{}, fmt.Errorf("failed to get rules: %w", err)
	}
	for _, rule := range rules {
		if rule.ID == id {
			return rule, nil
		}
	}
	return model.Rule{}, fmt.Errorf("rule %s not found", id)
}
