package types

import "context"

// RosterSource loads the participant entries of an exchange.
//
// Implementations can read from various backends:
//   - YAMLFile: a roster document on disk
//   - Static: fixed list for testing
//   - Custom: any other directory of participants
//
// Sources return raw entries; validation and partner resolution happen in
// BuildRoster so every source gets the same rules.
type RosterSource interface {
	// LoadEntries returns all participant entries in document order.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - []Entry: Participant entries
	//   - error: Read or decode error (nil on success)
	LoadEntries(ctx context.Context) ([]Entry, error)
}
