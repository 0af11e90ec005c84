package notify

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kpister/elf/types"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeClient struct {
	dialErr error
	failTo  string
	sent    []*mail.Msg
	dialed  bool
	closed  bool
}

func (f *fakeClient) DialWithContext(context.Context) error {
	f.dialed = true
	return f.dialErr
}

func (f *fakeClient) Send(msgs ...*mail.Msg) error {
	for _, m := range msgs {
		rcpts, err := m.GetRecipients()
		if err != nil {
			return err
		}
		if slices.Contains(rcpts, f.failTo) {
			return errors.New("550 mailbox unavailable")
		}
		f.sent = append(f.sent, m)
	}

	return nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func newTestSMTP(t *testing.T, client *fakeClient) *SMTP {
	t.Helper()

	r, err := NewRenderer("", "")
	require.NoError(t, err)

	s, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Username: "santa@example.com", Password: "secret"}, r)
	require.NoError(t, err)
	s.newClient = func() (mailClient, error) { return client, nil }

	return s
}

var smtpReports = []types.Report{
	{Name: "Ann", Email: "ann@example.com", Recipients: []string{"Bo", "Cy"}},
	{Name: "Bo", Email: "bo@example.com", Recipients: []string{"Cy", "Ann"}},
	{Name: "Cy", Email: "cy@example.com", Recipients: []string{"Ann", "Bo"}},
}

func TestNewSMTP(t *testing.T) {
	r, err := NewRenderer("", "")
	require.NoError(t, err)

	t.Run("requires credentials", func(t *testing.T) {
		_, err := NewSMTP(SMTPConfig{Host: "smtp.example.com"}, r)
		require.ErrorIs(t, err, types.ErrMissingCredentials)
	})

	t.Run("requires host", func(t *testing.T) {
		_, err := NewSMTP(SMTPConfig{Username: "u", Password: "p"}, r)
		require.ErrorIs(t, err, types.ErrInvalidConfig)
	})

	t.Run("applies defaults", func(t *testing.T) {
		s, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Username: "santa@example.com", Password: "p"}, r)

		require.NoError(t, err)
		require.Equal(t, DefaultSMTPPort, s.cfg.Port)
		require.Equal(t, "santa@example.com", s.cfg.From)
		require.NotZero(t, s.cfg.Timeout)
	})
}

func TestSMTP_Notify(t *testing.T) {
	ctx := context.Background()

	t.Run("sends one message per participant", func(t *testing.T) {
		client := &fakeClient{}
		s := newTestSMTP(t, client)

		err := s.Notify(ctx, smtpReports)

		require.NoError(t, err)
		require.Len(t, client.sent, 3)
		require.True(t, client.closed)

		rcpts, err := client.sent[0].GetRecipients()
		require.NoError(t, err)
		require.Equal(t, []string{"ann@example.com"}, rcpts)
		require.Equal(t, []string{"Ann's Secret Santa Report"}, client.sent[0].GetGenHeader(mail.HeaderSubject))
	})

	t.Run("continues past a failed recipient", func(t *testing.T) {
		client := &fakeClient{failTo: "bo@example.com"}
		s := newTestSMTP(t, client)

		err := s.Notify(ctx, smtpReports)

		require.ErrorIs(t, err, types.ErrDeliveryFailed)
		require.ErrorContains(t, err, "Bo <bo@example.com>")
		require.ErrorContains(t, err, "1 of 3 messages")
		require.Len(t, client.sent, 2)
	})

	t.Run("dial failure fails the batch", func(t *testing.T) {
		client := &fakeClient{dialErr: errors.New("535 authentication failed")}
		s := newTestSMTP(t, client)

		err := s.Notify(ctx, smtpReports)

		require.ErrorIs(t, err, types.ErrDeliveryFailed)
		require.ErrorContains(t, err, "authentication failed")
		require.Empty(t, client.sent)
	})

	t.Run("invalid address is reported without dialing it", func(t *testing.T) {
		client := &fakeClient{}
		s := newTestSMTP(t, client)
		reports := append(slices.Clone(smtpReports), types.Report{Name: "Dee", Email: "not an address"})

		err := s.Notify(ctx, reports)

		require.ErrorIs(t, err, types.ErrDeliveryFailed)
		require.ErrorContains(t, err, "Dee <not an address>")
		require.Len(t, client.sent, 3)
	})

	t.Run("dial failure keeps earlier build errors", func(t *testing.T) {
		client := &fakeClient{dialErr: errors.New("535 authentication failed")}
		s := newTestSMTP(t, client)
		reports := append(slices.Clone(smtpReports), types.Report{Name: "Dee", Email: "not an address"})

		err := s.Notify(ctx, reports)

		require.ErrorIs(t, err, types.ErrDeliveryFailed)
		require.ErrorContains(t, err, "authentication failed")
		require.ErrorContains(t, err, "Dee <not an address>")
	})

	t.Run("does not dial when every message fails to build", func(t *testing.T) {
		client := &fakeClient{}
		s := newTestSMTP(t, client)

		err := s.Notify(ctx, []types.Report{
			{Name: "Dee", Email: "not an address", Recipients: []string{"Eve"}},
			{Name: "Eve", Email: "eve at example", Recipients: []string{"Dee"}},
		})

		require.ErrorIs(t, err, types.ErrDeliveryFailed)
		require.ErrorContains(t, err, "2 of 2 messages")
		require.False(t, client.dialed)
	})

	t.Run("nothing to send", func(t *testing.T) {
		client := &fakeClient{dialErr: errors.New("should not dial")}
		s := newTestSMTP(t, client)

		require.NoError(t, s.Notify(ctx, nil))
	})
}
