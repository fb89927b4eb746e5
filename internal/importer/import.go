package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cleared-dev/roster/internal/contacts"
	"github.com/cleared-dev/roster/internal/model"
)

// maxReported is how many errors ErrorReport lists before summarizing.
const maxReported = 5

// ContactCreator persists a contact. *store.DB satisfies it.
type ContactCreator interface {
	CreateContact(ctx context.Context, c *model.Contact) error
}

// Summary counts the outcome of one import run.
type Summary struct {
	Imported int
	Failed   int
	Errors   []error
}

// ErrorReport renders the collected errors, at most five of them, one per
// line. It returns "" when nothing failed.
func (s Summary) ErrorReport() string {
	if len(s.Errors) == 0 {
		return ""
	}
	var b strings.Builder
	for i, err := range s.Errors {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == maxReported {
			fmt.Fprintf(&b, "+%d more", len(s.Errors)-maxReported)
			break
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// Importer reads contacts with a Parser and stores them one by one.
type Importer struct {
	Store  ContactCreator
	Parser Parser
	Now    func() time.Time
}

// NewImporter creates an importer using the wall clock.
func NewImporter(store ContactCreator, p Parser) *Importer {
	return &Importer{Store: store, Parser: p, Now: time.Now}
}

// Import parses r and stores every valid contact. Invalid records and
// failed inserts are counted in the Summary without stopping the run.
// A read failure or a cancelled context returns an error; contacts stored
// before it stay stored.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Summary, error) {
	var s Summary
	log := slog.With("component", "importer", "format", im.Parser.Format())

	records, err := im.Parser.Parse(r, im.Now())
	if err != nil {
		return s, err
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return s, fmt.Errorf("import interrupted after %d contacts: %w", s.Imported, err)
		}

		err := rec.Err
		if err == nil {
			err = contacts.Validate(rec.Contact, rec.Line)
		}
		if err == nil {
			c := rec.Contact
			if cerr := im.Store.CreateContact(ctx, &c); cerr != nil {
				err = fmt.Errorf("line %d: %w", rec.Line, cerr)
			}
		}
		if err != nil {
			s.Failed++
			s.Errors = append(s.Errors, err)
			log.Warn("record rejected", "line", rec.Line, "err", err)
			continue
		}
		s.Imported++
	}

	log.Info("import finished", "imported", s.Imported, "failed", s.Failed)
	return s, nil
}

// ImportFile opens path and imports it.
func (im *Importer) ImportFile(ctx context.Context, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	defer f.Close()
	return im.Import(ctx, f)
}
