// Package types provides core type definitions and interfaces for the elf library.
//
// This package contains shared types that are used across multiple packages in the
// library. By keeping these types in a separate package, we avoid import cycles
// between the root elf package and its internal implementations.
//
// Key types:
//   - Participant: A named member of the exchange with contact address and history
//   - Roster: Ordered arena of participants addressed by name
//   - Round: One complete giver → recipient assignment
//   - DrawStrategy: Proposes candidate rounds for a roster
//   - Notifier: Delivers each participant's report
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
