// Package kvutil provides helpers for NATS JetStream KeyValue buckets.
package kvutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kpister/elf/internal/natsutil"
	"github.com/nats-io/nats.go/jetstream"
)

// ReportHistory is how many past report versions the reports bucket keeps per key.
const ReportHistory = 5

// EnsureKVBucketWithRetry creates or opens a KV bucket with retry logic.
//
// An existing bucket is opened as is; its configuration is not updated.
// Connectivity failures are retried with exponential backoff (10ms, 20ms, 40ms...);
// any other failure, such as an invalid bucket name, is returned at once.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - config: KV bucket configuration
//   - maxRetries: Maximum number of attempts (default: 3)
//
// Returns:
//   - jetstream.KeyValue: The KV bucket instance
//   - error: Last error after all attempts
func EnsureKVBucketWithRetry(
	ctx context.Context,
	js jetstream.JetStream,
	config jetstream.KeyValueConfig,
	maxRetries int,
) (jetstream.KeyValue, error) {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error

	for attempt := range maxRetries {
		kv, err := js.CreateKeyValue(ctx, config)
		if err == nil {
			return kv, nil
		}

		if errors.Is(err, jetstream.ErrBucketExists) {
			kv, err := js.KeyValue(ctx, config.Bucket)
			if err == nil {
				return kv, nil
			}
			lastErr = fmt.Errorf("bucket exists but failed to open: %w", err)
		} else {
			lastErr = err
			if !natsutil.IsConnectivityError(err) {
				return nil, fmt.Errorf("create KV bucket %s: %w", config.Bucket, err)
			}
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled during KV bucket creation: %w", ctx.Err())
		}

		if attempt < maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * 10 * time.Millisecond //nolint:gosec // attempt is bounded by maxRetries
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("failed to create/open KV bucket %s after %d attempts: %w",
		config.Bucket, maxRetries, lastErr)
}

// EnsureReportsBucket creates or opens the bucket that holds published reports.
//
// Reports never expire so version numbers keep increasing across runs.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - bucket: Bucket name (e.g., "elf-reports")
//
// Returns:
//   - jetstream.KeyValue: The reports bucket
//   - error: Creation error
func EnsureReportsBucket(ctx context.Context, js jetstream.JetStream, bucket string) (jetstream.KeyValue, error) {
	return EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "gift exchange reports",
		History:     ReportHistory,
	}, 5)
}
