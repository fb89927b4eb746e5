package exporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-vcard"

	"github.com/cleared-dev/roster/internal/contacts"
	"github.com/cleared-dev/roster/internal/dates"
	"github.com/cleared-dev/roster/internal/model"
)

const vcardDateLayout = "20060102"

// VCardExporter writes one vCard 4.0 per contact.
type VCardExporter struct{}

// Format returns the exporter name.
func (e *VCardExporter) Format() string { return "vcard" }

// Export encodes every contact.
func (e *VCardExporter) Export(w io.Writer, list []model.Contact) error {
	enc := vcard.NewEncoder(w)
	for _, c := range list {
		card := contactToCard(c)
		vcard.ToV4(card)
		if err := enc.Encode(card); err != nil {
			return fmt.Errorf("encoding vcard for %s: %w", c.FullName(), err)
		}
	}
	return nil
}

func contactToCard(c model.Contact) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldFormattedName, c.FullName())
	card.AddName(&vcard.Name{GivenName: c.FirstName, FamilyName: c.LastName})

	if c.ID != "" {
		card.SetValue(vcard.FieldUID, "urn:uuid:"+c.ID)
	}
	if c.Birthday != nil {
		card.SetValue(vcard.FieldBirthday, c.Birthday.Format(vcardDateLayout))
	}
	if c.Email != "" {
		card.SetValue(vcard.FieldEmail, c.Email)
	}
	if c.Phone != "" {
		card.SetValue(vcard.FieldTelephone, c.Phone)
	}
	if c.StreetName != "" || c.StreetNumber != "" || c.PostalCode != "" || c.City != "" {
		card.AddAddress(&vcard.Address{
			StreetAddress: strings.TrimSpace(c.StreetName + " " + c.StreetNumber),
			PostalCode:    c.PostalCode,
			Locality:      c.City,
		})
	}
	if c.PIN != "" {
		card.SetValue(contacts.PropPIN, c.PIN)
	}

	if c.IsMember {
		card.SetValue(contacts.PropMember, "yes")
		if c.MemberSince != nil {
			card.SetValue(contacts.PropMemberSince, c.MemberSince.Format(vcardDateLayout))
		}
		if c.MemberUntil != nil {
			card.SetValue(contacts.PropMemberUntil, c.MemberUntil.Format(vcardDateLayout))
		}
		card.SetValue(vcard.FieldNote, membershipNote(c))
	}
	return card
}

func membershipNote(c model.Contact) string {
	note := "Member"
	if c.MemberSince != nil {
		note += " since " + dates.Format(c.MemberSince)
	}
	if c.MemberUntil != nil {
		note += " until " + dates.Format(c.MemberUntil)
	}
	return note
}
