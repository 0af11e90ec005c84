package notify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kpister/elf/types"
)

// Writer writes rendered plain-text messages to an io.Writer.
//
// It is the dry-run transport: nothing leaves the process.
type Writer struct {
	w        io.Writer
	renderer *Renderer
	options
}

var _ types.Notifier = (*Writer)(nil)

// NewWriter creates a notifier that prints messages to w.
func NewWriter(w io.Writer, renderer *Renderer, opts ...Option) *Writer {
	return &Writer{w: w, renderer: renderer, options: newOptions(opts)}
}

// Notify writes one message block per report.
func (n *Writer) Notify(ctx context.Context, reports []types.Report) error {
	for i, report := range reports {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := n.renderer.Render(report)
		if err != nil {
			return err
		}

		var b strings.Builder
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "To: %s <%s>\nSubject: %s\n\n%s\n", msg.Name, msg.To, msg.Subject, msg.Text)

		if _, err := io.WriteString(n.w, b.String()); err != nil {
			n.metrics.RecordDelivery("writer", false)
			return fmt.Errorf("%w: write message for %q: %w", types.ErrDeliveryFailed, report.Name, err)
		}
		n.metrics.RecordDelivery("writer", true)
	}

	n.logger.Debug("messages written", "count", len(reports))

	return nil
}
