package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/roster/internal/importlog"
)

func newImportLogCommand(opts *rootOptions) *cobra.Command {
	var last int

	cmd := &cobra.Command{
		Use:   "import-log",
		Short: "Show the history of import runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			entries, err := importlog.Read(p.dir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No imports recorded")
				return nil
			}
			if last > 0 && len(entries) > last {
				entries = entries[len(entries)-last:]
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tRUN\tSOURCE\tIMPORTED\tFAILED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
					e.Timestamp.Local().Format("2006-01-02 15:04"), e.RunID, e.Source, e.Imported, e.Failed)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&last, "last", 0, "show only the most recent N entries")
	return cmd
}
