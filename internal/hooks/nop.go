// Package hooks provides default Hooks implementations.
package hooks

import (
	"context"

	"github.com/kpister/elf/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks in the exchange.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, types.Round) error    = (*NopHooks)(nil).OnRoundDrawn
	_ func(context.Context, []types.Report) error = (*NopHooks)(nil).OnDelivered
	_ func(context.Context, error) error          = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnRoundDrawn: h.OnRoundDrawn,
		OnDelivered:  h.OnDelivered,
		OnError:      h.OnError,
	}
}

// Fill returns a copy of h with every nil callback replaced by a no-op.
func Fill(h *types.Hooks) types.Hooks {
	out := NewNop()
	if h == nil {
		return out
	}
	if h.OnRoundDrawn != nil {
		out.OnRoundDrawn = h.OnRoundDrawn
	}
	if h.OnDelivered != nil {
		out.OnDelivered = h.OnDelivered
	}
	if h.OnError != nil {
		out.OnError = h.OnError
	}

	return out
}

// OnRoundDrawn is a no-op implementation.
func (h *NopHooks) OnRoundDrawn(ctx context.Context, round types.Round) error {
	return nil
}

// OnDelivered is a no-op implementation.
func (h *NopHooks) OnDelivered(ctx context.Context, reports []types.Report) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}
