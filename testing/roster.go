package testing

import (
	"strings"

	"github.com/kpister/elf/types"
)

// Entries returns roster entries for names with generated example.com addresses.
func Entries(names ...string) []types.Entry {
	entries := make([]types.Entry, len(names))
	for i, n := range names {
		entries[i] = types.Entry{Name: n, Email: strings.ToLower(n) + "@example.com"}
	}

	return entries
}

// Couple sets a and b as each other's significant other within entries.
func Couple(entries []types.Entry, a, b string) []types.Entry {
	for i := range entries {
		switch entries[i].Name {
		case a:
			entries[i].Significant = b
		case b:
			entries[i].Significant = a
		}
	}

	return entries
}
