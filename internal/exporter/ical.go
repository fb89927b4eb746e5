package exporter

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/cleared-dev/roster/internal/model"
)

const (
	icalVersion = "2.0"
	icalProdID  = "-//Roster//Birthdays//EN"
	icalDomain  = "roster.local"

	propVersion   = "VERSION"
	propProdID    = "PRODID"
	propUID       = "UID"
	propDTStamp   = "DTSTAMP"
	propDTStart   = "DTSTART"
	propRRule     = "RRULE"
	propSummary   = "SUMMARY"
	yearlyRule    = "FREQ=YEARLY"
	emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:" + icalVersion + "\r\nPRODID:" + icalProdID + "\r\nEND:VCALENDAR\r\n"
)

// ICalExporter writes a birthday calendar: one yearly all-day event per
// contact with a known birthday. Contacts without a birthday are skipped.
type ICalExporter struct {
	Now func() time.Time
}

// NewICalExporter creates a calendar exporter stamped with the wall clock.
func NewICalExporter() *ICalExporter {
	return &ICalExporter{Now: time.Now}
}

// Format returns the exporter name.
func (e *ICalExporter) Format() string { return "ical" }

// Export encodes the calendar.
func (e *ICalExporter) Export(w io.Writer, list []model.Contact) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(propVersion, icalVersion)
	cal.Props.SetText(propProdID, icalProdID)

	stamp := ical.NewProp(propDTStamp)
	stamp.SetDateTime(e.Now().UTC())

	for _, c := range list {
		if c.Birthday == nil {
			continue
		}
		event := ical.NewEvent()
		event.Props.SetText(propUID, birthdayUID(c))
		event.Props.SetText(propSummary, c.FullName()+" birthday")
		event.Props.Set(stamp)

		start := ical.NewProp(propDTStart)
		start.SetDate(*c.Birthday)
		event.Props.Set(start)

		// Set directly; SetText would escape the rule as TEXT.
		rule := ical.NewProp(propRRule)
		rule.Value = yearlyRule
		event.Props.Set(rule)

		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		if _, err := io.WriteString(w, emptyCalendar); err != nil {
			return fmt.Errorf("writing calendar: %w", err)
		}
		return nil
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

func birthdayUID(c model.Contact) string {
	key := c.ID
	if key == "" {
		key = c.Birthday.Format("20060102") + "-" + c.FullName()
	}
	return fmt.Sprintf("%s-birthday@%s", key, icalDomain)
}
