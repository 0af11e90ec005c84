package elf

import "github.com/kpister/elf/types"

// Sentinel errors re-exported from the types package.
var (
	ErrInvalidConfig        = types.ErrInvalidConfig
	ErrRosterSourceRequired = types.ErrRosterSourceRequired
	ErrDrawStrategyRequired = types.ErrDrawStrategyRequired
	ErrNotifierRequired     = types.ErrNotifierRequired
	ErrMissingCredentials   = types.ErrMissingCredentials
	ErrRosterNotLoaded      = types.ErrRosterNotLoaded

	ErrEmptyName            = types.ErrEmptyName
	ErrDuplicateParticipant = types.ErrDuplicateParticipant
	ErrMissingEmail         = types.ErrMissingEmail
	ErrInvalidEmail         = types.ErrInvalidEmail
	ErrUnknownPartner       = types.ErrUnknownPartner
	ErrSelfPartner          = types.ErrSelfPartner
	ErrPartnerConflict      = types.ErrPartnerConflict
	ErrUnknownParticipant   = types.ErrUnknownParticipant
	ErrMalformedRoster      = types.ErrMalformedRoster

	ErrNotEnoughParticipants = types.ErrNotEnoughParticipants
	ErrInfeasibleRound       = types.ErrInfeasibleRound
	ErrRetryBudgetExhausted  = types.ErrRetryBudgetExhausted
	ErrInvalidRound          = types.ErrInvalidRound

	ErrDeliveryFailed = types.ErrDeliveryFailed
	ErrPublishFailed  = types.ErrPublishFailed
)
