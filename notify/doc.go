// Package notify delivers assignment reports to participants.
//
// Each participant receives one report listing every recipient they were
// assigned across the drawn rounds. The package includes:
//
//   - SMTP: One email per participant over a single SMTP session
//   - KV: Versioned JSON reports in a NATS JetStream KeyValue bucket
//   - Writer: Rendered messages written to an io.Writer (dry runs)
//   - Multi: Fan-out to several notifiers
//
// All notifiers render through a Renderer so the text is identical across
// transports. Custom notifiers can be implemented by satisfying the
// types.Notifier interface.
package notify
