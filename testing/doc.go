// Package testing provides test utilities for the elf library.
//
// This package offers helpers for setting up test environments: an embedded
// NATS server for exercising the KV report notifier, a logger that writes to
// the test output, and roster fixtures. It follows Go's convention of
// providing testing utilities in a dedicated package (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - NewTestLogger: types.Logger backed by slogt
//   - Entries: Roster entries with generated addresses
//
// Example usage:
//
//	import (
//	    "testing"
//	    elftest "github.com/kpister/elf/testing"
//	)
//
//	func TestMyNotifier(t *testing.T) {
//	    _, nc := elftest.StartEmbeddedNATS(t)
//	    kv := elftest.CreateJetStreamKV(t, nc, "reports")
//	    // Use kv for your tests
//	}
package testing
