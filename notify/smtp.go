package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kpister/elf/types"
	"github.com/wneessen/go-mail"
)

// DefaultSMTPPort is the implicit-TLS submission port.
const DefaultSMTPPort = 465

// SMTPConfig holds SMTP server settings and credentials.
type SMTPConfig struct {
	Host     string
	Port     int    // default 465 (implicit TLS); any other port uses mandatory STARTTLS
	From     string // default Username
	Username string
	Password string
	Timeout  time.Duration // default 30s
}

// mailClient is the subset of *mail.Client used by SMTP.
type mailClient interface {
	DialWithContext(ctx context.Context) error
	Send(msgs ...*mail.Msg) error
	Close() error
}

// SMTP delivers each report as a multipart email.
//
// All messages are sent over one session. A failure for one recipient does not
// stop delivery to the others; every failure is reported in the returned error.
type SMTP struct {
	cfg       SMTPConfig
	renderer  *Renderer
	newClient func() (mailClient, error)
	options
}

var _ types.Notifier = (*SMTP)(nil)

// NewSMTP creates an SMTP notifier.
//
// Parameters:
//   - cfg: Server settings (Host, Username and Password are required)
//   - renderer: Message renderer
//   - opts: Optional configuration (WithLogger, WithMetrics)
//
// Returns:
//   - *SMTP: Ready notifier (no connection is made until Notify)
//   - error: ErrMissingCredentials or ErrInvalidConfig
//
// Example:
//
//	renderer, _ := notify.NewRenderer("Santa", "")
//	n, err := notify.NewSMTP(notify.SMTPConfig{
//	    Host:     "smtp.gmail.com",
//	    Username: creds.Username,
//	    Password: creds.Password,
//	}, renderer, notify.WithLogger(logger))
func NewSMTP(cfg SMTPConfig, renderer *Renderer, opts ...Option) (*SMTP, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: smtp host is required", types.ErrInvalidConfig)
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, types.ErrMissingCredentials
	}
	if renderer == nil {
		return nil, fmt.Errorf("%w: renderer is required", types.ErrInvalidConfig)
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultSMTPPort
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	s := &SMTP{
		cfg:      cfg,
		renderer: renderer,
		options:  newOptions(opts),
	}
	s.newClient = s.dialer

	return s, nil
}

func (s *SMTP) dialer() (mailClient, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTimeout(s.cfg.Timeout),
	}
	if s.cfg.Port == DefaultSMTPPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	return mail.NewClient(s.cfg.Host, opts...)
}

// Notify renders and sends one message per report.
//
// Returns:
//   - error: nil if every message was accepted; otherwise ErrDeliveryFailed
//     joined with each recipient's error
func (s *SMTP) Notify(ctx context.Context, reports []types.Report) error {
	if len(reports) == 0 {
		return nil
	}

	msgs := make([]*mail.Msg, 0, len(reports))
	sent := make([]types.Report, 0, len(reports))
	var errs []error

	for _, report := range reports {
		msg, err := s.build(report)
		if err != nil {
			s.metrics.RecordDelivery("smtp", false)
			errs = append(errs, fmt.Errorf("%s <%s>: %w", report.Name, report.Email, err))
			continue
		}
		msgs = append(msgs, msg)
		sent = append(sent, report)
	}

	if len(msgs) == 0 {
		return fmt.Errorf("%w: %d of %d messages: %w",
			types.ErrDeliveryFailed, len(errs), len(reports), errors.Join(errs...))
	}

	client, err := s.newClient()
	if err != nil {
		return fmt.Errorf("%w: create smtp client: %w",
			types.ErrDeliveryFailed, errors.Join(append([]error{err}, errs...)...))
	}
	if err := client.DialWithContext(ctx); err != nil {
		for range msgs {
			s.metrics.RecordDelivery("smtp", false)
		}
		return fmt.Errorf("%w: connect to %s:%d: %w",
			types.ErrDeliveryFailed, s.cfg.Host, s.cfg.Port, errors.Join(append([]error{err}, errs...)...))
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.logger.Warn("failed to close smtp session", "error", err)
		}
	}()

	delivered := 0
	for i, msg := range msgs {
		report := sent[i]
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("%s <%s>: %w", report.Name, report.Email, err))
			s.metrics.RecordDelivery("smtp", false)
			continue
		}

		if err := client.Send(msg); err != nil {
			s.metrics.RecordDelivery("smtp", false)
			s.logger.Warn("email delivery failed", "participant", report.Name, "error", err)
			errs = append(errs, fmt.Errorf("%s <%s>: %w", report.Name, report.Email, err))
			continue
		}

		s.metrics.RecordDelivery("smtp", true)
		s.logger.Debug("email delivered", "participant", report.Name)
		delivered++
	}

	s.logger.Info("emails sent", "delivered", delivered, "failed", len(errs), "host", s.cfg.Host)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %d of %d messages: %w",
			types.ErrDeliveryFailed, len(errs), len(reports), errors.Join(errs...))
	}

	return nil
}

func (s *SMTP) build(report types.Report) (*mail.Msg, error) {
	rendered, err := s.renderer.Render(report)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.AddToFormat(report.Name, report.Email); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(rendered.Subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, rendered.Text)
	msg.AddAlternativeString(mail.TypeTextHTML, rendered.HTML)

	return msg, nil
}
