package contacts

// vCard extension properties for the contact fields vCard has no standard
// property for.
const (
	PropPIN         = "X-ROSTER-PIN"
	PropMember      = "X-ROSTER-MEMBER"
	PropMemberSince = "X-ROSTER-MEMBER-SINCE"
	PropMemberUntil = "X-ROSTER-MEMBER-UNTIL"
)
