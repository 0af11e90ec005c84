package types

// Pair is a single giver → recipient assignment.
type Pair struct {
	Giver     string `json:"giver"`
	Recipient string `json:"recipient"`
}

// Round is one committed assignment of recipients to every participant.
type Round struct {
	// Number is the 1-based round number within the roster.
	Number int `json:"number"`

	// Pairs lists one pair per participant, in roster order.
	Pairs []Pair `json:"pairs"`
}

// Recipient returns the recipient drawn by giver in this round.
func (r Round) Recipient(giver string) (string, bool) {
	for _, p := range r.Pairs {
		if p.Giver == giver {
			return p.Recipient, true
		}
	}

	return "", false
}

// Violation identifies the constraint a candidate pair breaks.
type Violation int

const (
	// ViolationNone means the pair is allowed.
	ViolationNone Violation = iota

	// ViolationSelf means the giver drew themselves.
	ViolationSelf

	// ViolationPartner means the giver drew their paired partner.
	ViolationPartner

	// ViolationRepeat means the giver already drew this recipient in an earlier round.
	ViolationRepeat

	// ViolationUnknown means the giver or recipient is not in the roster.
	ViolationUnknown
)

// String returns the string representation of the violation.
func (v Violation) String() string {
	switch v {
	case ViolationNone:
		return "none"
	case ViolationSelf:
		return "self"
	case ViolationPartner:
		return "partner"
	case ViolationRepeat:
		return "repeat"
	case ViolationUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Proposal is a candidate round produced by a DrawStrategy.
type Proposal struct {
	// Pairs is the proposed assignment in roster order.
	Pairs []Pair

	// Attempts is the number of candidates the strategy generated, including the accepted one.
	Attempts int

	// Rejections counts discarded candidates by the first violation found.
	Rejections map[Violation]int
}
