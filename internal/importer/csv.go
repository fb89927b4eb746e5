package importer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cleared-dev/roster/internal/contacts"
)

const maxLineSize = 1 << 20

// CSVParser parses contact CSV files as written by the exporter and the
// import template: an optional byte-order mark, "#" comment lines, blank
// lines, one header line, then one contact per line.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse decodes every data line. Lines that fail validation are returned
// with Err set; only read failures abort parsing.
func (p *CSVParser) Parse(r io.Reader, now time.Time) ([]Record, error) {
	sc := bufio.NewScanner(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []Record
	lineNo := 0
	headerSeen := false
	for sc.Scan() {
		lineNo++
		text := sc.Text()
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}

		c, err := contacts.UnmarshalLine(text, lineNo, now)
		records = append(records, Record{Line: lineNo, Contact: c, Err: err})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading CSV line %d: %w", ErrFileAccess, lineNo+1, err)
	}
	return records, nil
}
