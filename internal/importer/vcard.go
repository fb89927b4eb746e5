package importer

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-vcard"

	"github.com/cleared-dev/roster/internal/contacts"
	"github.com/cleared-dev/roster/internal/dates"
	"github.com/cleared-dev/roster/internal/model"
)

// vCard dates are basic (19900315) or extended (1990-03-15) ISO 8601.
var vcardDateLayouts = []string{"20060102", "2006-01-02"}

// VCardParser parses .vcf address book exports. Record.Line holds the
// 1-based position of the card in the file.
type VCardParser struct{}

// Format returns the parser name.
func (p *VCardParser) Format() string { return "vcard" }

// Parse decodes every card. A malformed card ends parsing; the cards
// before it are kept and the failure is reported as a rejected record.
func (p *VCardParser) Parse(r io.Reader, now time.Time) ([]Record, error) {
	dec := vcard.NewDecoder(r)

	var records []Record
	for n := 1; ; n++ {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			records = append(records, Record{Line: n, Err: err})
			break
		}
		records = append(records, Record{Line: n, Contact: cardToContact(card, now)})
	}
	return records, nil
}

func cardToContact(card vcard.Card, now time.Time) model.Contact {
	c := model.Contact{
		PIN:       strings.TrimSpace(card.Value(contacts.PropPIN)),
		Email:     strings.TrimSpace(card.PreferredValue(vcard.FieldEmail)),
		Phone:     strings.TrimSpace(card.PreferredValue(vcard.FieldTelephone)),
		Birthday:  parseVCardDate(card.Value(vcard.FieldBirthday)),
		IsMember:  contacts.ParseMember(card.Value(contacts.PropMember)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.MemberSince = parseVCardDate(card.Value(contacts.PropMemberSince))
	c.MemberUntil = parseVCardDate(card.Value(contacts.PropMemberUntil))

	if name := card.Name(); name != nil {
		c.FirstName = strings.TrimSpace(name.GivenName)
		c.LastName = strings.TrimSpace(name.FamilyName)
	}
	if c.FirstName == "" && c.LastName == "" {
		c.FirstName, c.LastName = splitFormattedName(card.PreferredValue(vcard.FieldFormattedName))
	}

	if addr := card.Address(); addr != nil {
		c.StreetName, c.StreetNumber = splitStreet(addr.StreetAddress)
		c.PostalCode = strings.TrimSpace(addr.PostalCode)
		c.City = strings.TrimSpace(addr.Locality)
	}
	return c
}

func parseVCardDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range vcardDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return dates.ParsePtr(s)
}

// splitFormattedName splits "Ana Marija Horvat" into "Ana Marija", "Horvat".
func splitFormattedName(fn string) (string, string) {
	fn = strings.TrimSpace(fn)
	i := strings.LastIndex(fn, " ")
	if i < 0 {
		return fn, ""
	}
	return strings.TrimSpace(fn[:i]), strings.TrimSpace(fn[i+1:])
}

// splitStreet separates a trailing house number: "Ilica 10a" -> "Ilica", "10a".
func splitStreet(street string) (string, string) {
	street = strings.TrimSpace(street)
	i := strings.LastIndex(street, " ")
	if i < 0 {
		return street, ""
	}
	last := street[i+1:]
	if last == "" || last[0] < '0' || last[0] > '9' {
		return street, ""
	}
	return strings.TrimSpace(street[:i]), last
}
