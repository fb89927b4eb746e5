// Package dates parses the calendar dates found in contact files.
package dates

import (
	"log/slog"
	"strings"
	"time"
)

// Layout is the day-first format used on export and tried first on import.
const Layout = "02.01.2006"

// layouts is tried in order; day-first formats come before ISO.
var layouts = []string{
	Layout,
	"02/01/2006",
	"2006-01-02",
}

// Parse returns the date in s and true, or false when s is blank
// or matches none of the known layouts.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	slog.Warn("unrecognized date", "component", "dates", "value", s)
	return time.Time{}, false
}

// ParsePtr is Parse returning nil instead of false.
func ParsePtr(s string) *time.Time {
	t, ok := Parse(s)
	if !ok {
		return nil
	}
	return &t
}

// Format renders t with Layout; nil renders as "".
func Format(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(Layout)
}
