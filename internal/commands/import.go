package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/roster/internal/importer"
	"github.com/cleared-dev/roster/internal/importlog"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var dir string
	var format string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import contacts from a file, or every file waiting in the import directory",
		Long: `Import contacts from a CSV, vCard or XLSX file.

Without a file argument every .csv, .vcf, .vcard and .xlsx file in the import
directory is imported and then moved to its processed/ subdirectory.
Invalid lines are reported and skipped; the rest of the file is still imported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			run := &importRun{
				project:  p,
				registry: importer.DefaultRegistry(),
				format:   format,
				runID:    uuid.NewString(),
				out:      cmd.OutOrStdout(),
			}

			if len(args) == 1 {
				err = run.importOne(cmd, args[0])
			} else {
				if dir == "" {
					dir = p.cfg.Import.Dir
				}
				err = run.importDir(cmd, p.path(dir))
			}
			if err != nil {
				return err
			}
			return run.commit(cmd)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "import directory (default from roster.yaml)")
	cmd.Flags().StringVar(&format, "format", "", "input format: csv, vcard or xlsx (default from file extension)")

	return cmd
}

type importRun struct {
	project  *project
	registry *importer.Registry
	format   string
	runID    string
	out      io.Writer
	sources  []string
	imported int
}

func (r *importRun) parserFor(path string) (importer.Parser, error) {
	if r.format != "" {
		if p := r.registry.Get(r.format); p != nil {
			return p, nil
		}
		return nil, fmt.Errorf("unknown import format %q", r.format)
	}
	if p := r.registry.ForFile(path); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("cannot tell the format of %s; use --format", filepath.Base(path))
}

func (r *importRun) importOne(cmd *cobra.Command, path string) error {
	parser, err := r.parserFor(path)
	if err != nil {
		return err
	}

	im := importer.NewImporter(r.project.db, parser)
	sum, err := im.ImportFile(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}

	r.report(filepath.Base(path), sum)
	r.sources = append(r.sources, filepath.Base(path))
	r.imported += sum.Imported
	return importlog.Append(r.project.dir, []importlog.Entry{{
		Timestamp: time.Now(),
		RunID:     r.runID,
		Source:    filepath.Base(path),
		Imported:  sum.Imported,
		Failed:    sum.Failed,
	}})
}

func (r *importRun) importDir(cmd *cobra.Command, dir string) error {
	files, err := importer.Scan(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(r.out, "No files to import in %s\n", dir)
		return nil
	}

	for _, f := range files {
		if err := r.importOne(cmd, f.Path); err != nil {
			return err
		}
		if err := importer.MarkProcessed(dir, f.Name); err != nil {
			return err
		}
	}
	return nil
}

// commit versions the import log and the processed files.
func (r *importRun) commit(cmd *cobra.Command) error {
	if len(r.sources) == 0 {
		return nil
	}
	msg := fmt.Sprintf("import: %d contacts from %s", r.imported, strings.Join(r.sources, ", "))
	return r.project.commit(cmd.Context(), msg)
}

func (r *importRun) report(source string, sum importer.Summary) {
	fmt.Fprintf(r.out, "%s: imported %d, failed %d\n", source, sum.Imported, sum.Failed)
	if report := sum.ErrorReport(); report != "" {
		for _, line := range strings.Split(report, "\n") {
			fmt.Fprintf(r.out, "  %s\n", line)
		}
	}
}
