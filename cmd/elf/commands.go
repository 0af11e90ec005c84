package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/kpister/elf"
	"github.com/kpister/elf/internal/kvutil"
	"github.com/kpister/elf/internal/logging"
	"github.com/kpister/elf/internal/metrics"
	"github.com/kpister/elf/notify"
	"github.com/kpister/elf/source"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func NewDrawCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use: "draw",

		Short: "Draw every round and print each participant's message without sending it",

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, a.writeMetrics()) }()

			renderer, err := a.renderer()
			if err != nil {
				return err
			}

			ex, err := a.exchange(notify.NewWriter(cmd.OutOrStdout(), renderer, a.notifyOptions()...))
			if err != nil {
				return err
			}

			_, err = ex.Run(cmd.Context())
			return err
		},
	}
}

func NewSendCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use: "send",

		Short: "Draw every round and email each participant their recipients",

		Long: `Draw every round and email each participant their recipients.

SMTP credentials are read from EMAIL_USERNAME and EMAIL_PASSWORD.
When --nats-url (or publish.url) is set, reports are also published to a
JetStream KV bucket.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, a.writeMetrics()) }()

			creds, err := elf.LoadCredentials()
			if err != nil {
				return err
			}
			a.logger.Debug("credentials loaded", "credentials", creds.String())

			renderer, err := a.renderer()
			if err != nil {
				return err
			}

			smtp, err := notify.NewSMTP(notify.SMTPConfig{
				Host:     a.cfg.Mail.Host,
				Port:     a.cfg.Mail.Port,
				From:     a.cfg.Mail.From,
				Username: creds.Username,
				Password: creds.Password,
				Timeout:  a.cfg.Mail.Timeout,
			}, renderer, a.notifyOptions()...)
			if err != nil {
				return err
			}

			notifier := notify.Multi{smtp}

			if a.cfg.Publish.URL != "" {
				nc, err := nats.Connect(a.cfg.Publish.URL, nats.Name("elf"))
				if err != nil {
					return fmt.Errorf("connect to nats %s: %w", a.cfg.Publish.URL, err)
				}
				defer nc.Close()

				kv, err := a.reportsBucket(cmd.Context(), nc)
				if err != nil {
					return err
				}
				notifier = append(notifier, notify.NewKV(kv, a.cfg.Publish.KeyPrefix, a.notifyOptions()...))
			}

			ex, err := a.exchange(notifier)
			if err != nil {
				return err
			}

			rounds, err := ex.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "sent %d rounds to %d participants\n", len(rounds), ex.Roster().Len())

			return nil
		},
	}
}

func NewCheckCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use: "check",

		Short: "Validate the roster and prove the configured rounds can be drawn",

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, a.writeMetrics()) }()

			renderer, err := a.renderer()
			if err != nil {
				return err
			}

			// Check never delivers; the writer only satisfies NewExchange.
			ex, err := a.exchange(notify.NewWriter(cmd.OutOrStdout(), renderer))
			if err != nil {
				return err
			}

			roster, err := ex.Load(cmd.Context())
			if err != nil {
				return err
			}

			if err := ex.Check(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d participants, %d rounds\n", roster.Len(), a.cfg.Rounds)

			return nil
		},
	}
}

// app is the per-invocation state built from flags and the config file.
type app struct {
	cfg     elf.Config
	logger  elf.Logger
	metrics elf.MetricsCollector

	// reg is nil unless a metrics textfile is configured.
	reg *prometheus.Registry
}

func newApp(cmd *cobra.Command, flags *rootFlags) (*app, error) {
	level, err := logging.ParseLevel(flags.logLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", elf.ErrInvalidConfig, err)
	}

	cfg := elf.DefaultConfig()
	if flags.config != "" {
		cfg, err = elf.LoadConfig(flags.config)
		if err != nil {
			return nil, err
		}
	}

	fs := cmd.Flags()
	if fs.Changed("roster") {
		cfg.Roster.Path = flags.roster
	}
	if fs.Changed("rounds") {
		cfg.Rounds = flags.rounds
		if cfg.Rounds == 0 {
			return nil, fmt.Errorf("%w: --rounds must be >= 1", elf.ErrInvalidConfig)
		}
	}
	if fs.Changed("seed") {
		cfg.Draw.Seed = flags.seed
	}
	if fs.Changed("strategy") {
		cfg.Draw.Strategy = flags.strategy
	}
	if fs.Changed("nats-url") {
		cfg.Publish.URL = flags.natsURL
	}
	if fs.Changed("metrics-file") {
		cfg.Metrics.Textfile = flags.metricsFile
	}

	elf.SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logging.NewText(cmd.ErrOrStderr(), level),
		metrics: metrics.NewNop(),
	}

	if cfg.Metrics.Textfile != "" {
		a.reg = prometheus.NewRegistry()
		a.metrics = metrics.NewPrometheus(a.reg, cfg.Metrics.Namespace)
	}

	return a, nil
}

func (a *app) renderer() (*notify.Renderer, error) {
	renderer, err := notify.NewRenderer(a.cfg.Mail.Signature, a.cfg.Mail.SubjectTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: mail.subjectTemplate: %w", elf.ErrInvalidConfig, err)
	}

	return renderer, nil
}

func (a *app) notifyOptions() []notify.Option {
	return []notify.Option{notify.WithLogger(a.logger), notify.WithMetrics(a.metrics)}
}

func (a *app) exchange(notifier elf.Notifier) (*elf.Exchange, error) {
	strat, err := elf.NewStrategy(a.cfg.Draw)
	if err != nil {
		return nil, err
	}

	return elf.NewExchange(
		&a.cfg,
		source.NewYAMLFile(a.cfg.Roster.Path),
		strat,
		notifier,
		elf.WithLogger(a.logger),
		elf.WithMetrics(a.metrics),
	)
}

func (a *app) reportsBucket(ctx context.Context, nc *nats.Conn) (jetstream.KeyValue, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	kv, err := kvutil.EnsureReportsBucket(ctx, js, a.cfg.Publish.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", elf.ErrPublishFailed, err)
	}

	return kv, nil
}

func (a *app) writeMetrics() error {
	if a.reg == nil {
		return nil
	}

	if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile, a.reg); err != nil {
		return err
	}
	a.logger.Debug("metrics written", "path", a.cfg.Metrics.Textfile)

	return nil
}
