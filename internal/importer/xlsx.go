package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/roster/internal/contacts"
)

// XLSXParser reads contacts from the first worksheet of a workbook laid out
// like the CSV format: optional "#" note rows, a header row, then one
// contact per row. Record.Line is the spreadsheet row number.
type XLSXParser struct{}

// Format returns the parser name.
func (p *XLSXParser) Format() string { return "xlsx" }

// Parse decodes every data row of the first sheet.
func (p *XLSXParser) Parse(r io.Reader, now time.Time) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %w", ErrFileAccess, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %s: %w", ErrFileAccess, sheets[0], err)
	}

	var records []Record
	headerSeen := false
	for i, row := range rows {
		if blankOrNote(row) {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}
		c, err := contacts.Unmarshal(row, i+1, now)
		records = append(records, Record{Line: i + 1, Contact: c, Err: err})
	}
	return records, nil
}

func blankOrNote(row []string) bool {
	for i, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		return i == 0 && strings.HasPrefix(cell, "#")
	}
	return true
}
