package strategy

import "github.com/kpister/elf/types"

// ErrNoParticipants indicates that fewer than two participants were provided.
var ErrNoParticipants = types.ErrNotEnoughParticipants
