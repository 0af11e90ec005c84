package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kpister/elf/types"
	"github.com/nats-io/nats.go/jetstream"
)

// DefaultKeyPrefix is the KV key prefix used when none is configured.
const DefaultKeyPrefix = "report"

// StoredReport is the JSON document written for each participant.
type StoredReport struct {
	Version     int64     `json:"version"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Recipients  []string  `json:"recipients"`
	PublishedAt time.Time `json:"published_at"`
}

// KV publishes reports to a NATS JetStream KeyValue bucket.
//
// Each participant's report is stored under "prefix.<key>" where key is the
// participant name made safe for KV keys (see Key). Every Notify call publishes
// a new version, higher than any version already present in the bucket, and
// removes reports for participants no longer in the roster.
type KV struct {
	kv        jetstream.KeyValue
	prefix    string
	keyPrefix string // cached "prefix."

	mu         sync.Mutex
	version    int64
	discovered bool

	options
}

var _ types.Notifier = (*KV)(nil)

// NewKV creates a KV report publisher.
//
// Parameters:
//   - kv: Bucket to publish into
//   - prefix: Key prefix (DefaultKeyPrefix if empty)
//   - opts: Optional configuration (WithLogger, WithMetrics)
//
// Returns:
//   - *KV: Publisher; the highest existing version is discovered on first use
func NewKV(kv jetstream.KeyValue, prefix string, opts ...Option) *KV {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &KV{
		kv:        kv,
		prefix:    prefix,
		keyPrefix: prefix + ".",
		options:   newOptions(opts),
	}
}

// Key converts a participant name into a KV key token.
//
// Characters outside [-_=a-zA-Z0-9] are replaced by '_', so "Mary Jane" and
// "Mary.Jane" both become "Mary_Jane".
func Key(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '=':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	return b.String()
}

// DiscoverHighestVersion scans the bucket for the highest existing report version.
//
// Returns:
//   - error: KV access failure (an empty bucket is not an error)
func (p *KV) DiscoverHighestVersion(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.discover(ctx)
}

func (p *KV) discover(ctx context.Context) error {
	keys, err := p.keys(ctx)
	if err != nil {
		return err
	}

	highest := int64(0)
	for _, key := range keys {
		entry, err := p.kv.Get(ctx, key)
		if err != nil {
			p.logger.Debug("failed to read report key", "key", key, "error", err)
			continue
		}

		var stored StoredReport
		if err := json.Unmarshal(entry.Value(), &stored); err != nil {
			p.logger.Debug("failed to unmarshal report", "key", key, "error", err)
			continue
		}
		highest = max(highest, stored.Version)
	}

	p.version = highest
	p.discovered = true

	if highest > 0 {
		p.logger.Info("discovered existing reports", "highest_version", highest, "checked_keys", len(keys))
	}

	return nil
}

// keys lists the bucket keys under this publisher's prefix.
func (p *KV) keys(ctx context.Context) ([]string, error) {
	all, err := p.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("list report keys: %w", err)
	}

	keys := all[:0]
	for _, key := range all {
		if strings.HasPrefix(key, p.keyPrefix) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// Notify publishes one report per participant under a new version.
//
// Returns:
//   - error: ErrPublishFailed wrapping the first KV failure
func (p *KV) Notify(ctx context.Context, reports []types.Report) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(reports) == 0 {
		return nil
	}

	if !p.discovered {
		if err := p.discover(ctx); err != nil {
			p.logger.Warn("failed to discover existing versions, starting from 0", "error", err)
		}
	}

	active := make(map[string]string, len(reports))
	for _, report := range reports {
		key := p.keyPrefix + Key(report.Name)
		if other, dup := active[key]; dup {
			return fmt.Errorf("%w: %q and %q map to key %q", types.ErrPublishFailed, other, report.Name, key)
		}
		active[key] = report.Name
	}

	p.version++
	now := time.Now().UTC()

	for _, report := range reports {
		data, err := json.Marshal(StoredReport{
			Version:     p.version,
			Name:        report.Name,
			Email:       report.Email,
			Recipients:  report.Recipients,
			PublishedAt: now,
		})
		if err != nil {
			return fmt.Errorf("%w: marshal report: %w", types.ErrPublishFailed, err)
		}

		key := p.keyPrefix + Key(report.Name)
		if _, err := p.kv.Put(ctx, key, data); err != nil {
			p.metrics.RecordDelivery("kv", false)
			return fmt.Errorf("%w: %s: %w", types.ErrPublishFailed, key, err)
		}
		p.metrics.RecordDelivery("kv", true)
	}

	p.cleanupStale(ctx, active)

	p.logger.Info("reports published", "version", p.version, "participants", len(reports), "prefix", p.prefix)

	return nil
}

// cleanupStale deletes report keys not present in active. Failures are logged only.
func (p *KV) cleanupStale(ctx context.Context, active map[string]string) {
	keys, err := p.keys(ctx)
	if err != nil {
		p.logger.Warn("failed to list keys for cleanup", "error", err)
		return
	}

	for _, key := range keys {
		if _, ok := active[key]; ok {
			continue
		}
		if err := p.kv.Delete(ctx, key); err != nil {
			p.logger.Warn("failed to delete stale report", "key", key, "error", err)
			continue
		}
		p.logger.Debug("deleted stale report", "key", key)
	}
}

// Get reads the latest report published for a participant.
//
// Returns:
//   - StoredReport: Decoded report
//   - error: jetstream.ErrKeyNotFound when nothing was published for name
func (p *KV) Get(ctx context.Context, name string) (StoredReport, error) {
	entry, err := p.kv.Get(ctx, p.keyPrefix+Key(name))
	if err != nil {
		return StoredReport{}, err
	}

	var stored StoredReport
	if err := json.Unmarshal(entry.Value(), &stored); err != nil {
		return StoredReport{}, fmt.Errorf("decode report %q: %w", name, err)
	}

	return stored, nil
}

// CurrentVersion returns the last published version (0 if none yet).
func (p *KV) CurrentVersion() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.version
}
