package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/roster/internal/currency"
)

func newAmountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "amount <field-contents>...",
		Short: "Replay amount field edits through the currency formatter",
		Long: `Each argument is the raw contents of an amount entry field after one
edit. The formatted display text is printed for each, followed by the
canonical value of the last one.

  roster amount 1 12 123 1234`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			in := currency.NewInput(decimal.Zero)
			for _, raw := range args {
				fmt.Fprintf(out, "%s -> %s\n", raw, in.Type(raw))
			}

			if _, ok := in.Amount(); !ok {
				fmt.Fprintf(out, "canonical: %q (not a positive amount)\n", in.Canonical())
				return nil
			}
			fmt.Fprintf(out, "canonical: %s\n", in.Canonical())
			return nil
		},
	}
}
