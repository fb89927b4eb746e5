package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/roster/internal/currency"
	"github.com/cleared-dev/roster/internal/payments"
)

func newPaymentsCommand(opts *rootOptions) *cobra.Command {
	paymentsCmd := &cobra.Command{
		Use:   "payments",
		Short: "Manage payment templates",
	}
	paymentsCmd.AddCommand(newPaymentsAddCommand(opts))
	paymentsCmd.AddCommand(newPaymentsListCommand(opts))
	return paymentsCmd
}

func newPaymentsAddCommand(opts *rootOptions) *cobra.Command {
	var name, amount, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a payment template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := payments.New(name, amount, description, time.Now())
			if err != nil {
				return err
			}

			p, err := openProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.db.CreatePaymentTemplate(cmd.Context(), &tpl); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added payment template %s (%s EUR)\n", tpl.Name, currency.Display(tpl.Amount))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "template name (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount as shown in the field, e.g. 25,50 (required)")
	cmd.Flags().StringVar(&description, "description", "", "description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newPaymentsListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List payment templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			list, err := p.db.ListPaymentTemplates(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tAMOUNT\tDESCRIPTION")
			for _, t := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, currency.Display(t.Amount), t.Description)
			}
			return tw.Flush()
		},
	}
}
