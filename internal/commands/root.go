package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/roster/internal/buildinfo"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	project  string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "roster",
		Short:   "Contact roster for clubs and small organizations",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.project, "project", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand(opts))
	rootCmd.AddCommand(newImportLogCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))
	rootCmd.AddCommand(newTemplateCommand())
	rootCmd.AddCommand(newContactsCommand(opts))
	rootCmd.AddCommand(newAmountCommand())
	rootCmd.AddCommand(newPaymentsCommand(opts))

	return rootCmd
}
