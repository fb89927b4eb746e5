package contacts

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/cleared-dev/roster/internal/model"
)

var templateNotes = []string{
	"# Contacts import template",
	"# Lines starting with # are ignored. The first other line is the header and is skipped.",
	"# Columns: " + Header,
	"# First Name and Last Name are required; every other column may be left empty.",
	"# Dates: DD.MM.YYYY (also accepted: DD/MM/YYYY, YYYY-MM-DD).",
	"# Is Member: YES/NO, TRUE/FALSE or 1/0.",
	"# Wrap values containing commas in double quotes; write a quote inside a value as \"\".",
}

// WriteTemplate writes an annotated, importable example file.
func WriteTemplate(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, note := range templateNotes {
		if _, err := fmt.Fprintln(bw, note); err != nil {
			return fmt.Errorf("writing template: %w", err)
		}
	}
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return fmt.Errorf("writing template header: %w", err)
	}
	if _, err := fmt.Fprintln(bw, MarshalLine(exampleContact())); err != nil {
		return fmt.Errorf("writing template example: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	return nil
}

func exampleContact() model.Contact {
	birthday := time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)
	since := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	return model.Contact{
		FirstName:    "John",
		LastName:     "Doe",
		Birthday:     &birthday,
		PIN:          "1234567890123",
		Email:        "john.doe@email.com",
		Phone:        "+385 99 123 4567",
		StreetName:   "Ilica",
		StreetNumber: "10",
		PostalCode:   "10000",
		City:         "Zagreb",
		IsMember:     true,
		MemberSince:  &since,
		MemberUntil:  &until,
	}
}
