package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/roster/internal/contacts"
	"github.com/cleared-dev/roster/internal/model"
)

// SheetName is the worksheet holding exported contacts.
const SheetName = "Contacts"

// XLSXExporter writes a spreadsheet with the same columns as the CSV export.
type XLSXExporter struct{}

// Format returns the exporter name.
func (e *XLSXExporter) Format() string { return "xlsx" }

// Export writes the header row and one row per contact.
func (e *XLSXExporter) Export(w io.Writer, list []model.Contact) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := contacts.Columns()
	if err := setRow(f, 1, header); err != nil {
		return err
	}
	for i, c := range list {
		if err := setRow(f, i+2, contacts.Marshal(c)); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", last, 16); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}
