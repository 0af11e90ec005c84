package notify

import (
	"context"
	"errors"

	"github.com/kpister/elf/types"
)

// Multi delivers reports through every notifier in order.
//
// All notifiers are called even if an earlier one fails; their errors are joined.
type Multi []types.Notifier

var _ types.Notifier = Multi(nil)

// Notify calls each notifier with the same reports.
func (m Multi) Notify(ctx context.Context, reports []types.Report) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, reports); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
