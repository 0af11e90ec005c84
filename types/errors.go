package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the elf library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).

// Exchange errors - Public API errors returned by the Exchange.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRosterSourceRequired is returned when the roster source is nil.
	ErrRosterSourceRequired = errors.New("roster source is required")

	// ErrDrawStrategyRequired is returned when the draw strategy is nil.
	ErrDrawStrategyRequired = errors.New("draw strategy is required")

	// ErrNotifierRequired is returned when the notifier is nil.
	ErrNotifierRequired = errors.New("notifier is required")

	// ErrMissingCredentials is returned when mail credentials are absent from the environment.
	ErrMissingCredentials = errors.New("mail credentials are missing")

	// ErrRosterNotLoaded is returned when drawing or notifying before Load.
	ErrRosterNotLoaded = errors.New("roster not loaded")
)

// Roster errors - Returned while building a roster from loaded entries.
var (
	// ErrEmptyName is returned when an entry has no participant name.
	ErrEmptyName = errors.New("participant name is empty")

	// ErrDuplicateParticipant is returned when two entries share a name.
	ErrDuplicateParticipant = errors.New("duplicate participant")

	// ErrMissingEmail is returned when an entry has no contact address.
	ErrMissingEmail = errors.New("participant email is missing")

	// ErrInvalidEmail is returned when a contact address cannot be parsed.
	ErrInvalidEmail = errors.New("participant email is invalid")

	// ErrUnknownPartner is returned when a partner name refers to nobody in the roster.
	ErrUnknownPartner = errors.New("partner is not a participant")

	// ErrSelfPartner is returned when a participant names themselves as partner.
	ErrSelfPartner = errors.New("participant cannot be their own partner")

	// ErrPartnerConflict is returned when symmetric partner links cannot be derived
	// because two participants claim the same partner.
	ErrPartnerConflict = errors.New("conflicting partner links")

	// ErrUnknownParticipant is returned when a name refers to nobody in the roster.
	ErrUnknownParticipant = errors.New("unknown participant")

	// ErrMalformedRoster is returned when a roster document does not have the expected shape.
	ErrMalformedRoster = errors.New("malformed roster document")
)

// Draw errors - Returned by the round drawer and draw strategies.
var (
	// ErrNotEnoughParticipants is returned when fewer than two participants are present.
	ErrNotEnoughParticipants = errors.New("at least two participants are required")

	// ErrInfeasibleRound is returned when no assignment can satisfy every constraint.
	ErrInfeasibleRound = errors.New("no valid assignment exists for this round")

	// ErrRetryBudgetExhausted is returned when rejection sampling gives up.
	ErrRetryBudgetExhausted = errors.New("no valid assignment found within the retry budget")

	// ErrInvalidRound is returned when a proposed round violates an invariant.
	ErrInvalidRound = errors.New("invalid round")
)

// Notifier errors - Returned by delivery transports.
var (
	// ErrDeliveryFailed is returned when one or more messages could not be delivered.
	ErrDeliveryFailed = errors.New("delivery failed")

	// ErrPublishFailed is returned when publishing a report to NATS KV fails.
	ErrPublishFailed = errors.New("failed to publish report")
)

// DrawError describes a failed round draw.
//
// It wraps one of the draw sentinel errors so callers can match with errors.Is
// while still inspecting which round failed and how many candidates were tried.
type DrawError struct {
	// Round is the 1-based number of the round that failed.
	Round int

	// Attempts is the number of candidate assignments that were sampled (0 if none).
	Attempts int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DrawError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("draw round %d: %v (after %d attempts)", e.Round, e.Err, e.Attempts)
	}

	return fmt.Sprintf("draw round %d: %v", e.Round, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DrawError) Unwrap() error {
	return e.Err
}
