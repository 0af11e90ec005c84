package source

import (
	"context"
	"slices"
	"sync"

	"github.com/kpister/elf/types"
)

// Static implements a roster source with a fixed list of entries.
type Static struct {
	mu      sync.RWMutex
	entries []types.Entry
}

var _ types.RosterSource = (*Static)(nil)

// NewStatic creates a new static roster source.
//
// Useful for tests and for embedding a roster in code.
//
// Parameters:
//   - entries: Fixed list of entries in roster order
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic([]types.Entry{
//	    {Name: "Ann", Email: "ann@example.com", Significant: "Bo"},
//	    {Name: "Bo", Email: "bo@example.com"},
//	    {Name: "Cy", Email: "cy@example.com"},
//	})
func NewStatic(entries []types.Entry) *Static {
	return &Static{entries: slices.Clone(entries)}
}

// LoadEntries returns a copy of the entries.
//
// Returns:
//   - []types.Entry: The fixed list of entries
//   - error: Context error only
func (s *Static) LoadEntries(ctx context.Context) ([]types.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.entries), nil
}

// Update replaces the entry list returned by later loads.
func (s *Static) Update(entries []types.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = slices.Clone(entries)
}
