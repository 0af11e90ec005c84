// Package seed builds random sources for round draws.
//
// A seed phrase makes a draw reproducible: the same phrase, roster and
// strategy always produce the same rounds. Without a phrase the source is
// seeded from crypto/rand.
package seed

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/zeebo/xxh3"
)

// FromPhrase derives a deterministic PCG source from a seed phrase.
//
// The phrase is hashed with xxh3-128; the two halves seed the PCG state.
func FromPhrase(phrase string) *rand.Rand {
	h := xxh3.HashString128(phrase)
	return rand.New(rand.NewPCG(h.Hi, h.Lo))
}

// Random returns a PCG source seeded from crypto/rand.
func Random() (*rand.Rand, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}

	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(b[:8]),
		binary.LittleEndian.Uint64(b[8:]),
	)), nil
}

// New returns FromPhrase(phrase) when phrase is set, otherwise Random().
func New(phrase string) (*rand.Rand, error) {
	if phrase != "" {
		return FromPhrase(phrase), nil
	}

	return Random()
}
