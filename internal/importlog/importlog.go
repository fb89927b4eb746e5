// Package importlog keeps a CSV history of import runs under the project's
// logs directory.
package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry records one imported file.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Source    string
	Imported  int
	Failed    int
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,run_id,source,imported,failed"

const (
	numFields    = 5
	logDir       = "logs"
	logFile      = "logs/import-log.csv"
	colTimestamp = 0
	colRunID     = 1
	colSource    = 2
	colImported  = 3
	colFailed    = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colSource] = e.Source
	row[colImported] = strconv.Itoa(e.Imported)
	row[colFailed] = strconv.Itoa(e.Failed)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	imported, err := strconv.Atoi(record[colImported])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing imported count %q: %w", record[colImported], err)
	}
	failed, err := strconv.Atoi(record[colFailed])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing failed count %q: %w", record[colFailed], err)
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Source:    record[colSource],
		Imported:  imported,
		Failed:    failed,
	}, nil
}

// Append writes entries to <dir>/logs/import-log.csv, creating the file and header if needed.
func Append(dir string, entries []Entry) (err error) {
	if err := os.MkdirAll(filepath.Join(dir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing import log: %w", cerr)
		}
	}()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/logs/import-log.csv.
// Returns nil if the file does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
