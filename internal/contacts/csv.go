package contacts

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cleared-dev/roster/internal/csvline"
	"github.com/cleared-dev/roster/internal/dates"
	"github.com/cleared-dev/roster/internal/model"
)

// Header is the first line of a contacts CSV file.
const Header = "First Name,Last Name,Birthday,PIN,Email,Phone,Street Name,Street Number,Postal Code,City,Is Member,Member Since,Member Until"

const (
	numFields       = 13
	colFirstName    = 0
	colLastName     = 1
	colBirthday     = 2
	colPIN          = 3
	colEmail        = 4
	colPhone        = 5
	colStreetName   = 6
	colStreetNumber = 7
	colPostalCode   = 8
	colCity         = 9
	colIsMember     = 10
	colMemberSince  = 11
	colMemberUntil  = 12
)

// Columns returns the header's column names in field order.
func Columns() []string {
	return strings.Split(Header, ",")
}

// Field names used in validation errors.
const (
	FieldFirstName = "first name"
	FieldLastName  = "last name"
	FieldEmail     = "email"
)

// truthy lists the lower-cased membership flag values read as true.
var truthy = map[string]bool{
	"yes":  true,
	"true": true,
	"1":    true,
}

// ParseMember reads a membership flag: yes, true or 1 in any case.
// Anything else, including "", is false.
func ParseMember(s string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(s))]
}

// Unmarshal converts the fields of one data line into a Contact.
// Missing trailing fields read as empty. Unparseable dates become nil.
// line is used only for error reporting.
func Unmarshal(record []string, line int, now time.Time) (model.Contact, error) {
	get := func(col int) string {
		if col >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[col])
	}

	c := model.Contact{
		FirstName:    get(colFirstName),
		LastName:     get(colLastName),
		Birthday:     dates.ParsePtr(get(colBirthday)),
		PIN:          get(colPIN),
		Email:        get(colEmail),
		Phone:        get(colPhone),
		StreetName:   get(colStreetName),
		StreetNumber: get(colStreetNumber),
		PostalCode:   get(colPostalCode),
		City:         get(colCity),
		IsMember:     ParseMember(get(colIsMember)),
		MemberSince:  dates.ParsePtr(get(colMemberSince)),
		MemberUntil:  dates.ParsePtr(get(colMemberUntil)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := checkRequired(c, line); err != nil {
		return model.Contact{}, err
	}
	return c, nil
}

// UnmarshalLine splits line and converts it; see Unmarshal.
func UnmarshalLine(text string, line int, now time.Time) (model.Contact, error) {
	return Unmarshal(csvline.Split(text), line, now)
}

// Marshal converts a Contact to its 13 CSV values.
func Marshal(c model.Contact) []string {
	row := make([]string, numFields)
	row[colFirstName] = c.FirstName
	row[colLastName] = c.LastName
	row[colBirthday] = dates.Format(c.Birthday)
	row[colPIN] = c.PIN
	row[colEmail] = c.Email
	row[colPhone] = c.Phone
	row[colStreetName] = c.StreetName
	row[colStreetNumber] = c.StreetNumber
	row[colPostalCode] = c.PostalCode
	row[colCity] = c.City
	row[colIsMember] = "No"
	if c.IsMember {
		row[colIsMember] = "Yes"
	}
	row[colMemberSince] = dates.Format(c.MemberSince)
	row[colMemberUntil] = dates.Format(c.MemberUntil)
	return row
}

// MarshalLine encodes a Contact as one quoted CSV line (no newline).
func MarshalLine(c model.Contact) string {
	return csvline.Join(Marshal(c))
}

// WriteAll writes the header and one line per contact.
func WriteAll(w io.Writer, list []model.Contact) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, c := range list {
		if _, err := fmt.Fprintln(bw, MarshalLine(c)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing contacts: %w", err)
	}
	return nil
}
