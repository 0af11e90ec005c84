package types

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
)

// Participant is a named member of a gift exchange.
//
// Participants are owned by a Roster. Values handed out by the Roster are
// copies, so mutating them never affects the arena.
type Participant struct {
	// Name uniquely identifies the participant within the roster.
	Name string `json:"name"`

	// Email is the contact address the report is delivered to.
	Email string `json:"email"`

	// Partner is the name of the paired partner ("" if none).
	// A participant is never assigned their partner.
	Partner string `json:"partner,omitempty"`

	// History lists assigned recipients, one per drawn round, in round order.
	History []string `json:"history,omitempty"`
}

// HasGiftedTo reports whether name already appears in the participant's history.
func (p Participant) HasGiftedTo(name string) bool {
	return slices.Contains(p.History, name)
}

// Entry is one participant as read from a roster document, before validation.
type Entry struct {
	// Name is the participant identifier (the document key).
	Name string

	// Email is the contact address.
	Email string

	// Significant optionally names another participant as paired partner.
	Significant string
}

// Report is what a notifier delivers to one participant.
type Report struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Recipients []string `json:"recipients"`
}

// Roster is an arena of participants addressed by name.
//
// Iteration order is the order participants were added, which for loaded
// rosters is document order. The draw algorithm relies on this order being
// fixed for the lifetime of the roster.
//
// Roster is not safe for concurrent mutation.
type Roster struct {
	order   []string
	members map[string]*Participant
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{members: make(map[string]*Participant)}
}

// BuildRoster validates entries and builds a roster with resolved partners.
//
// Validation rules:
//   - Names are non-empty (after trimming) and unique
//   - Email is present and parses as an RFC 5322 address
//   - Significant, when set, names another participant in the roster
//
// When symmetric is true the partner relation is made two-way: if A names B,
// B's partner becomes A. Conflicting claims (A names B while B names C, or
// two participants naming the same partner) fail with ErrPartnerConflict.
// When symmetric is false links are stored exactly as written; use
// AsymmetricPartners to find one-way links.
//
// Parameters:
//   - entries: Entries in document order
//   - symmetric: Whether to derive partner back-links
//
// Returns:
//   - *Roster: Roster with empty histories
//   - error: Validation error wrapping one of the roster sentinel errors
func BuildRoster(entries []Entry, symmetric bool) (*Roster, error) {
	r := NewRoster()

	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		if _, ok := r.members[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, name)
		}

		email := strings.TrimSpace(e.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: %q", ErrMissingEmail, name)
		}
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidEmail, name, err)
		}

		r.order = append(r.order, name)
		r.members[name] = &Participant{
			Name:    name,
			Email:   email,
			Partner: strings.TrimSpace(e.Significant),
		}
	}

	for _, name := range r.order {
		p := r.members[name]
		if p.Partner == "" {
			continue
		}
		if p.Partner == name {
			return nil, fmt.Errorf("%w: %q", ErrSelfPartner, name)
		}
		if _, ok := r.members[p.Partner]; !ok {
			return nil, fmt.Errorf("%w: %q names %q", ErrUnknownPartner, name, p.Partner)
		}
	}

	if symmetric {
		if err := r.symmetrize(); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Roster) symmetrize() error {
	for _, name := range r.order {
		p := r.members[name]
		if p.Partner == "" {
			continue
		}

		q := r.members[p.Partner]
		switch q.Partner {
		case name:
		case "":
			q.Partner = name
		default:
			return fmt.Errorf("%w: %q names %q but %q names %q",
				ErrPartnerConflict, name, q.Name, q.Name, q.Partner)
		}
	}

	return nil
}

// Len returns the number of participants.
func (r *Roster) Len() int {
	return len(r.order)
}

// Names returns participant names in roster order.
func (r *Roster) Names() []string {
	return slices.Clone(r.order)
}

// Get returns a copy of the named participant.
func (r *Roster) Get(name string) (Participant, bool) {
	p, ok := r.members[name]
	if !ok {
		return Participant{}, false
	}

	return clonePart(p), true
}

// Participants returns copies of all participants in roster order.
func (r *Roster) Participants() []Participant {
	out := make([]Participant, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, clonePart(r.members[name]))
	}

	return out
}

// Rounds returns the number of rounds committed to this roster.
func (r *Roster) Rounds() int {
	if len(r.order) == 0 {
		return 0
	}

	return len(r.members[r.order[0]].History)
}

// Check reports which constraint, if any, forbids giver from drawing recipient.
//
// Returns:
//   - Violation: ViolationNone when the pair is allowed
func (r *Roster) Check(giver, recipient string) Violation {
	p, ok := r.members[giver]
	if !ok {
		return ViolationUnknown
	}
	if _, ok := r.members[recipient]; !ok {
		return ViolationUnknown
	}

	switch {
	case giver == recipient:
		return ViolationSelf
	case p.Partner != "" && p.Partner == recipient:
		return ViolationPartner
	case p.HasGiftedTo(recipient):
		return ViolationRepeat
	default:
		return ViolationNone
	}
}

// Allowed reports whether giver may draw recipient in the next round.
func (r *Roster) Allowed(giver, recipient string) bool {
	return r.Check(giver, recipient) == ViolationNone
}

// Validate checks that pairs form a complete, valid next round for this roster.
//
// A valid round lists every participant exactly once as giver, in roster
// order, uses every participant exactly once as recipient, and contains no
// pair rejected by Check.
//
// Returns:
//   - error: ErrInvalidRound wrapped with the first problem found, nil if valid
func (r *Roster) Validate(pairs []Pair) error {
	if len(pairs) != len(r.order) {
		return fmt.Errorf("%w: %d pairs for %d participants", ErrInvalidRound, len(pairs), len(r.order))
	}

	seen := make(map[string]struct{}, len(pairs))
	for i, pair := range pairs {
		if pair.Giver != r.order[i] {
			return fmt.Errorf("%w: pair %d has giver %q, want %q", ErrInvalidRound, i, pair.Giver, r.order[i])
		}
		if v := r.Check(pair.Giver, pair.Recipient); v != ViolationNone {
			return fmt.Errorf("%w: %s -> %s: %s", ErrInvalidRound, pair.Giver, pair.Recipient, v)
		}
		if _, dup := seen[pair.Recipient]; dup {
			return fmt.Errorf("%w: %q is drawn more than once", ErrInvalidRound, pair.Recipient)
		}
		seen[pair.Recipient] = struct{}{}
	}

	return nil
}

// Commit validates pairs and appends each recipient to its giver's history.
//
// Nothing is written unless the whole round is valid.
//
// Returns:
//   - error: ErrInvalidRound wrapped with the first problem found
func (r *Roster) Commit(pairs []Pair) error {
	if err := r.Validate(pairs); err != nil {
		return err
	}

	for _, pair := range pairs {
		p := r.members[pair.Giver]
		p.History = append(p.History, pair.Recipient)
	}

	return nil
}

// AsymmetricPartners returns one-way partner links in roster order.
//
// Each returned pair names a participant whose partner does not name them back.
func (r *Roster) AsymmetricPartners() []Pair {
	var out []Pair
	for _, name := range r.order {
		p := r.members[name]
		if p.Partner == "" {
			continue
		}
		if r.members[p.Partner].Partner != name {
			out = append(out, Pair{Giver: name, Recipient: p.Partner})
		}
	}

	return out
}

// Reports builds one notifier report per participant in roster order.
func (r *Roster) Reports() []Report {
	out := make([]Report, 0, len(r.order))
	for _, name := range r.order {
		p := r.members[name]
		out = append(out, Report{
			Name:       p.Name,
			Email:      p.Email,
			Recipients: slices.Clone(p.History),
		})
	}

	return out
}

// Clone returns a deep copy of the roster with independent histories.
func (r *Roster) Clone() *Roster {
	c := &Roster{
		order:   slices.Clone(r.order),
		members: make(map[string]*Participant, len(r.members)),
	}
	for name, p := range r.members {
		cp := clonePart(p)
		c.members[name] = &cp
	}

	return c
}

func clonePart(p *Participant) Participant {
	cp := *p
	cp.History = slices.Clone(p.History)

	return cp
}
