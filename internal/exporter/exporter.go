package exporter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cleared-dev/roster/internal/contacts"
	"github.com/cleared-dev/roster/internal/model"
)

// ErrFileAccess marks failures to create or write an export file.
var ErrFileAccess = errors.New("file access failed")

// Exporter writes contacts in one file format.
type Exporter interface {
	Format() string
	Export(w io.Writer, list []model.Contact) error
}

// Registry holds named exporters.
type Registry struct {
	exporters map[string]Exporter
}

// NewRegistry creates an empty exporter registry.
func NewRegistry() *Registry {
	return &Registry{exporters: make(map[string]Exporter)}
}

// Register adds an exporter. Panics on duplicate format.
func (r *Registry) Register(e Exporter) {
	key := strings.ToLower(e.Format())
	if _, ok := r.exporters[key]; ok {
		panic("duplicate exporter format: " + key)
	}
	r.exporters[key] = e
}

// Get returns the exporter for format, or nil.
func (r *Registry) Get(format string) Exporter {
	return r.exporters[strings.ToLower(format)]
}

// Formats lists the registered format names.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.exporters))
	for k := range r.exporters {
		out = append(out, k)
	}
	return out
}

// DefaultRegistry returns a registry with all built-in exporters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVExporter{})
	r.Register(&VCardExporter{})
	r.Register(&XLSXExporter{})
	r.Register(NewICalExporter())
	return r
}

// CSVExporter writes the same layout the CSV importer reads.
type CSVExporter struct{}

// Format returns the exporter name.
func (e *CSVExporter) Format() string { return "csv" }

// Export writes the header and one line per contact.
func (e *CSVExporter) Export(w io.Writer, list []model.Contact) error {
	return contacts.WriteAll(w, list)
}

// ExportFile writes list to path, replacing any existing file.
func ExportFile(path string, exp Exporter, list []model.Contact) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: closing %s: %w", ErrFileAccess, path, cerr)
		}
	}()

	if err := exp.Export(f, list); err != nil {
		return fmt.Errorf("%w: exporting %s to %s: %w", ErrFileAccess, exp.Format(), path, err)
	}
	return nil
}
