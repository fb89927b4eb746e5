package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template <file>",
		Short: "Write an annotated CSV import template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := writeTemplate(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote template to %s\n", args[0])
			return nil
		},
	}
}
