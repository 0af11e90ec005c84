package elf

import "github.com/kpister/elf/types"

// Re-export types from the types package.
//
// Internal packages depend on `types` rather than the root `elf` package,
// which avoids import cycles while still offering elf.Roster, elf.Logger and
// friends to users.
type (
	Participant = types.Participant
	Entry       = types.Entry
	Report      = types.Report
	Roster      = types.Roster
	Pair        = types.Pair
	Round       = types.Round
	Violation   = types.Violation
	Proposal    = types.Proposal
	DrawError   = types.DrawError
)

// Re-export interfaces from the types package for convenience.
type (
	DrawStrategy     = types.DrawStrategy
	RosterSource     = types.RosterSource
	Notifier         = types.Notifier
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export Violation constants from the types package.
const (
	ViolationNone    = types.ViolationNone
	ViolationSelf    = types.ViolationSelf
	ViolationPartner = types.ViolationPartner
	ViolationRepeat  = types.ViolationRepeat
	ViolationUnknown = types.ViolationUnknown
)

// BuildRoster validates entries and builds a roster. See types.BuildRoster.
func BuildRoster(entries []Entry, symmetric bool) (*Roster, error) {
	return types.BuildRoster(entries, symmetric)
}
