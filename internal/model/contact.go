package model

import (
	"strings"
	"time"
)

// Contact is a person known to the organization, as stored and as
// exchanged through contact CSV files.
type Contact struct {
	ID           string // assigned by the store
	FirstName    string
	LastName     string
	Birthday     *time.Time
	PIN          string // national identification number
	Email        string
	Phone        string
	StreetName   string
	StreetNumber string
	PostalCode   string
	City         string
	IsMember     bool
	MemberSince  *time.Time
	MemberUntil  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns "First Last", skipping empty parts.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Age returns the age in whole years at now, or -1 if the birthday is unknown.
func (c Contact) Age(now time.Time) int {
	if c.Birthday == nil {
		return -1
	}
	b := *c.Birthday
	age := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	return age
}

// MemberOn reports whether c holds a membership covering day.
// An open-ended window (nil since or until) is unbounded on that side.
func (c Contact) MemberOn(day time.Time) bool {
	if !c.IsMember {
		return false
	}
	d := truncateDay(day)
	if c.MemberSince != nil && d.Before(truncateDay(*c.MemberSince)) {
		return false
	}
	if c.MemberUntil != nil && d.After(truncateDay(*c.MemberUntil)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
