package notify

import (
	"context"
	"testing"

	elftest "github.com/kpister/elf/testing"
	"github.com/kpister/elf/types"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Ann", "Ann"},
		{"Mary Jane", "Mary_Jane"},
		{"Mary.Jane", "Mary_Jane"},
		{"o'neil-2", "o_neil-2"},
		{"Zoë", "Zo_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Key(tt.name))
		})
	}
}

func TestKV_Notify(t *testing.T) {
	ctx := context.Background()
	_, nc := elftest.StartEmbeddedNATS(t)

	t.Run("publishes versioned reports", func(t *testing.T) {
		kv := elftest.CreateJetStreamKV(t, nc, "reports-versioned")
		p := NewKV(kv, "")

		require.NoError(t, p.Notify(ctx, []types.Report{
			{Name: "Ann", Email: "ann@example.com", Recipients: []string{"Bo"}},
			{Name: "Bo", Email: "bo@example.com", Recipients: []string{"Ann"}},
		}))
		require.Equal(t, int64(1), p.CurrentVersion())

		stored, err := p.Get(ctx, "Ann")
		require.NoError(t, err)
		require.Equal(t, int64(1), stored.Version)
		require.Equal(t, []string{"Bo"}, stored.Recipients)

		entry, err := kv.Get(ctx, "report.Bo")
		require.NoError(t, err)
		require.Contains(t, string(entry.Value()), `"recipients":["Ann"]`)
	})

	t.Run("continues versions across publishers", func(t *testing.T) {
		kv := elftest.CreateJetStreamKV(t, nc, "reports-monotonic")
		reports := []types.Report{
			{Name: "Ann", Email: "ann@example.com", Recipients: []string{"Bo"}},
			{Name: "Bo", Email: "bo@example.com", Recipients: []string{"Ann"}},
		}

		first := NewKV(kv, "elf")
		require.NoError(t, first.Notify(ctx, reports))
		require.NoError(t, first.Notify(ctx, reports))

		second := NewKV(kv, "elf")
		require.NoError(t, second.DiscoverHighestVersion(ctx))
		require.Equal(t, int64(2), second.CurrentVersion())

		require.NoError(t, second.Notify(ctx, reports))
		stored, err := second.Get(ctx, "Bo")
		require.NoError(t, err)
		require.Equal(t, int64(3), stored.Version)
	})

	t.Run("removes reports of departed participants", func(t *testing.T) {
		kv := elftest.CreateJetStreamKV(t, nc, "reports-cleanup")
		p := NewKV(kv, "")

		require.NoError(t, p.Notify(ctx, []types.Report{
			{Name: "Ann", Email: "ann@example.com", Recipients: []string{"Cy"}},
			{Name: "Bo", Email: "bo@example.com", Recipients: []string{"Ann"}},
			{Name: "Cy", Email: "cy@example.com", Recipients: []string{"Bo"}},
		}))
		require.NoError(t, p.Notify(ctx, []types.Report{
			{Name: "Ann", Email: "ann@example.com", Recipients: []string{"Bo"}},
			{Name: "Bo", Email: "bo@example.com", Recipients: []string{"Ann"}},
		}))

		_, err := p.Get(ctx, "Cy")
		require.ErrorIs(t, err, jetstream.ErrKeyNotFound)
	})

	t.Run("rejects names that collide after sanitizing", func(t *testing.T) {
		kv := elftest.CreateJetStreamKV(t, nc, "reports-collide")
		p := NewKV(kv, "")

		err := p.Notify(ctx, []types.Report{
			{Name: "Mary Jane", Email: "mj@example.com", Recipients: []string{"Mary.Jane"}},
			{Name: "Mary.Jane", Email: "mj2@example.com", Recipients: []string{"Mary Jane"}},
		})

		require.ErrorIs(t, err, types.ErrPublishFailed)
		require.Zero(t, p.CurrentVersion())
	})

	t.Run("ignores keys of other prefixes", func(t *testing.T) {
		kv := elftest.CreateJetStreamKV(t, nc, "reports-shared")
		_, err := kv.Put(ctx, "other.Ann", []byte(`{"version":99}`))
		require.NoError(t, err)
		p := NewKV(kv, "")

		require.NoError(t, p.Notify(ctx, []types.Report{{Name: "Ann", Email: "ann@example.com"}}))

		require.Equal(t, int64(1), p.CurrentVersion())
		_, err = kv.Get(ctx, "other.Ann")
		require.NoError(t, err)
	})
}
