package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/roster/internal/contacts"
	"github.com/cleared-dev/roster/internal/exporter"
)

// formatExt maps export formats to file extensions and back.
var formatExt = map[string]string{
	"csv":   ".csv",
	"vcard": ".vcf",
	"ical":  ".ics",
	"xlsx":  ".xlsx",
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var format string
	var query queryFlags

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export contacts as CSV, vCard, a spreadsheet or a birthday calendar",
		Long: `Export contacts to a file.

The format comes from --format, then from the file extension (.csv, .vcf,
.xlsx, .ics), then from export.default_format in roster.yaml. Without a file the
export is written to the export directory as contacts-YYYYMMDD.<ext>.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			format = exportFormat(format, path, p.cfg.Export.DefaultFormat)

			exp := exporter.DefaultRegistry().Get(format)
			if exp == nil {
				return fmt.Errorf("unknown export format %q", format)
			}
			if path == "" {
				name := "contacts-" + time.Now().Format("20060102") + formatExt[exp.Format()]
				path = filepath.Join(p.path(p.cfg.Export.Dir), name)
			}

			q, err := query.build()
			if err != nil {
				return err
			}

			list, err := p.db.ListContacts(cmd.Context())
			if err != nil {
				return err
			}
			list = contacts.Filter(list, q)

			if err := exporter.ExportFile(path, exp, list); err != nil {
				return err
			}
			p.log.Info("export finished", "component", "commands", "format", exp.Format(), "contacts", len(list))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d contacts to %s\n", len(list), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format: csv, vcard, xlsx or ical")
	query.register(cmd)

	return cmd
}

func exportFormat(flag, path, fallback string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	ext := strings.ToLower(filepath.Ext(path))
	for f, e := range formatExt {
		if ext == e {
			return f
		}
	}
	return fallback
}

// queryFlags are the contact selection flags shared by list and export.
type queryFlags struct {
	search      string
	membersOnly bool
	activeOn    string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "only contacts whose name, email or city contains this text")
	cmd.Flags().BoolVar(&f.membersOnly, "members-only", false, "only members")
	cmd.Flags().StringVar(&f.activeOn, "active-on", "", "only members whose membership covers this date (DD.MM.YYYY)")
}

func (f *queryFlags) build() (contacts.Query, error) {
	q := contacts.Query{Text: f.search, MembersOnly: f.membersOnly}
	var err error
	q.ActiveOn, err = optionalDate("--active-on", f.activeOn)
	return q, err
}
