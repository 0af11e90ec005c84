package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fourEntries() []Entry {
	return []Entry{
		{Name: "A", Email: "a@example.com", Significant: "B"},
		{Name: "B", Email: "b@example.com"},
		{Name: "C", Email: "c@example.com"},
		{Name: "D", Email: "d@example.com"},
	}
}

func TestBuildRoster(t *testing.T) {
	t.Run("preserves document order", func(t *testing.T) {
		entries := []Entry{
			{Name: "zed", Email: "z@example.com"},
			{Name: "amy", Email: "a@example.com"},
			{Name: "moe", Email: "m@example.com"},
		}

		r, err := BuildRoster(entries, false)

		require.NoError(t, err)
		require.Equal(t, []string{"zed", "amy", "moe"}, r.Names())
		require.Equal(t, 3, r.Len())
		require.Equal(t, 0, r.Rounds())
	})

	t.Run("keeps one-way partner links when not symmetric", func(t *testing.T) {
		r, err := BuildRoster(fourEntries(), false)
		require.NoError(t, err)

		a, _ := r.Get("A")
		b, _ := r.Get("B")

		require.Equal(t, "B", a.Partner)
		require.Empty(t, b.Partner)
		require.Equal(t, []Pair{{Giver: "A", Recipient: "B"}}, r.AsymmetricPartners())
	})

	t.Run("derives back-links when symmetric", func(t *testing.T) {
		r, err := BuildRoster(fourEntries(), true)
		require.NoError(t, err)

		b, _ := r.Get("B")

		require.Equal(t, "A", b.Partner)
		require.Empty(t, r.AsymmetricPartners())
	})

	t.Run("rejects conflicting partners when symmetric", func(t *testing.T) {
		entries := []Entry{
			{Name: "A", Email: "a@example.com", Significant: "B"},
			{Name: "B", Email: "b@example.com", Significant: "C"},
			{Name: "C", Email: "c@example.com"},
		}

		_, err := BuildRoster(entries, true)

		require.ErrorIs(t, err, ErrPartnerConflict)

		_, err = BuildRoster(entries, false)
		require.NoError(t, err)
	})

	t.Run("rejects two participants claiming the same partner when symmetric", func(t *testing.T) {
		entries := []Entry{
			{Name: "A", Email: "a@example.com", Significant: "B"},
			{Name: "B", Email: "b@example.com"},
			{Name: "C", Email: "c@example.com", Significant: "B"},
		}

		_, err := BuildRoster(entries, true)

		require.ErrorIs(t, err, ErrPartnerConflict)
	})

	t.Run("validates entries", func(t *testing.T) {
		cases := []struct {
			name    string
			entries []Entry
			want    error
		}{
			{"empty name", []Entry{{Name: "  ", Email: "a@example.com"}}, ErrEmptyName},
			{"duplicate", []Entry{{Name: "A", Email: "a@example.com"}, {Name: "A", Email: "b@example.com"}}, ErrDuplicateParticipant},
			{"missing email", []Entry{{Name: "A"}}, ErrMissingEmail},
			{"invalid email", []Entry{{Name: "A", Email: "not an address"}}, ErrInvalidEmail},
			{"unknown partner", []Entry{{Name: "A", Email: "a@example.com", Significant: "Z"}}, ErrUnknownPartner},
			{"self partner", []Entry{{Name: "A", Email: "a@example.com", Significant: "A"}}, ErrSelfPartner},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := BuildRoster(tc.entries, false)
				require.ErrorIs(t, err, tc.want)
			})
		}
	})

	t.Run("builds independent rosters from the same entries", func(t *testing.T) {
		entries := fourEntries()
		r1, err := BuildRoster(entries, false)
		require.NoError(t, err)
		r2, err := BuildRoster(entries, false)
		require.NoError(t, err)

		require.Equal(t, r1.Participants(), r2.Participants())

		err = r1.Commit([]Pair{
			{Giver: "A", Recipient: "C"},
			{Giver: "B", Recipient: "D"},
			{Giver: "C", Recipient: "A"},
			{Giver: "D", Recipient: "B"},
		})
		require.NoError(t, err)

		require.Equal(t, 1, r1.Rounds())
		require.Equal(t, 0, r2.Rounds())
	})
}

func TestRoster_Check(t *testing.T) {
	r, err := BuildRoster(fourEntries(), false)
	require.NoError(t, err)
	require.NoError(t, r.Commit([]Pair{
		{Giver: "A", Recipient: "C"},
		{Giver: "B", Recipient: "A"},
		{Giver: "C", Recipient: "D"},
		{Giver: "D", Recipient: "B"},
	}))

	require.Equal(t, ViolationSelf, r.Check("A", "A"))
	require.Equal(t, ViolationPartner, r.Check("A", "B"))
	require.Equal(t, ViolationRepeat, r.Check("A", "C"))
	require.Equal(t, ViolationNone, r.Check("A", "D"))
	require.Equal(t, ViolationNone, r.Check("B", "C"))
	require.Equal(t, ViolationUnknown, r.Check("A", "Z"))
	require.Equal(t, ViolationUnknown, r.Check("Z", "A"))
	require.True(t, r.Allowed("B", "C"))
	require.False(t, r.Allowed("B", "B"))
}

func TestRoster_Commit(t *testing.T) {
	t.Run("appends one entry per participant", func(t *testing.T) {
		r, err := BuildRoster(fourEntries(), false)
		require.NoError(t, err)

		err = r.Commit([]Pair{
			{Giver: "A", Recipient: "C"},
			{Giver: "B", Recipient: "D"},
			{Giver: "C", Recipient: "A"},
			{Giver: "D", Recipient: "B"},
		})

		require.NoError(t, err)
		a, _ := r.Get("A")
		require.Equal(t, []string{"C"}, a.History)
		require.True(t, a.HasGiftedTo("C"))
	})

	t.Run("rejects invalid rounds without partial writes", func(t *testing.T) {
		r, err := BuildRoster(fourEntries(), false)
		require.NoError(t, err)

		cases := map[string][]Pair{
			"too few pairs": {{Giver: "A", Recipient: "C"}},
			"self": {
				{Giver: "A", Recipient: "C"},
				{Giver: "B", Recipient: "B"},
				{Giver: "C", Recipient: "D"},
				{Giver: "D", Recipient: "A"},
			},
			"partner": {
				{Giver: "A", Recipient: "B"},
				{Giver: "B", Recipient: "A"},
				{Giver: "C", Recipient: "D"},
				{Giver: "D", Recipient: "C"},
			},
			"duplicate recipient": {
				{Giver: "A", Recipient: "C"},
				{Giver: "B", Recipient: "C"},
				{Giver: "C", Recipient: "D"},
				{Giver: "D", Recipient: "A"},
			},
			"out of order": {
				{Giver: "B", Recipient: "D"},
				{Giver: "A", Recipient: "C"},
				{Giver: "C", Recipient: "A"},
				{Giver: "D", Recipient: "B"},
			},
		}

		for name, pairs := range cases {
			t.Run(name, func(t *testing.T) {
				err := r.Commit(pairs)

				require.ErrorIs(t, err, ErrInvalidRound)
				require.Equal(t, 0, r.Rounds())
			})
		}
	})
}

func TestRoster_CopiesAreIndependent(t *testing.T) {
	r, err := BuildRoster(fourEntries(), false)
	require.NoError(t, err)
	require.NoError(t, r.Commit([]Pair{
		{Giver: "A", Recipient: "C"},
		{Giver: "B", Recipient: "D"},
		{Giver: "C", Recipient: "A"},
		{Giver: "D", Recipient: "B"},
	}))

	a, _ := r.Get("A")
	a.History[0] = "X"

	clone := r.Clone()
	require.NoError(t, clone.Commit([]Pair{
		{Giver: "A", Recipient: "D"},
		{Giver: "B", Recipient: "C"},
		{Giver: "C", Recipient: "B"},
		{Giver: "D", Recipient: "A"},
	}))

	orig, _ := r.Get("A")
	require.Equal(t, []string{"C"}, orig.History)
	require.Equal(t, 1, r.Rounds())
	require.Equal(t, 2, clone.Rounds())
}

func TestRoster_Reports(t *testing.T) {
	r, err := BuildRoster(fourEntries(), false)
	require.NoError(t, err)
	require.NoError(t, r.Commit([]Pair{
		{Giver: "A", Recipient: "C"},
		{Giver: "B", Recipient: "D"},
		{Giver: "C", Recipient: "A"},
		{Giver: "D", Recipient: "B"},
	}))

	reports := r.Reports()

	require.Len(t, reports, 4)
	require.Equal(t, Report{Name: "A", Email: "a@example.com", Recipients: []string{"C"}}, reports[0])
	require.Equal(t, "D", reports[3].Name)
}

func TestViolation_String(t *testing.T) {
	require.Equal(t, "none", ViolationNone.String())
	require.Equal(t, "self", ViolationSelf.String())
	require.Equal(t, "partner", ViolationPartner.String())
	require.Equal(t, "repeat", ViolationRepeat.String())
	require.Equal(t, "unknown", ViolationUnknown.String())
	require.Equal(t, "invalid", Violation(99).String())
}

func TestRound_Recipient(t *testing.T) {
	round := Round{Number: 1, Pairs: []Pair{{Giver: "A", Recipient: "B"}, {Giver: "B", Recipient: "A"}}}

	got, ok := round.Recipient("B")
	require.True(t, ok)
	require.Equal(t, "A", got)

	_, ok = round.Recipient("Z")
	require.False(t, ok)
}
