package contacts

import (
	"strings"
	"time"

	"github.com/cleared-dev/roster/internal/model"
)

// Query selects contacts from a list. The zero Query matches everything.
type Query struct {
	Text        string     // case-insensitive substring of name, email or city
	MembersOnly bool       // IsMember must be set
	ActiveOn    *time.Time // membership window must cover this day
}

// Filter returns the contacts matching q, preserving order.
func Filter(list []model.Contact, q Query) []model.Contact {
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	var result []model.Contact
	for _, c := range list {
		if q.MembersOnly && !c.IsMember {
			continue
		}
		if q.ActiveOn != nil && !c.MemberOn(*q.ActiveOn) {
			continue
		}
		if needle != "" && !matchesText(c, needle) {
			continue
		}
		result = append(result, c)
	}
	return result
}

func matchesText(c model.Contact, needle string) bool {
	for _, v := range []string{c.FirstName, c.LastName, c.FullName(), c.Email, c.City} {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}
