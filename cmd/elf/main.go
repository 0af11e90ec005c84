package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	if err := mainE(); err != nil {
		os.Exit(1)
	}
}

func mainE() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error("Failure", "err", err)
		_ = os.Stderr.Sync()
		return err
	}

	return nil
}

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	config      string
	roster      string
	rounds      int
	seed        string
	strategy    string
	logLevel    string
	natsURL     string
	metricsFile string
}

func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use: "elf SUBCOMMAND",

		Short: "Draw secret santa rounds and deliver each participant's report",

		Long: `elf draws gift exchange rounds from a YAML roster.

Every participant gives to one other participant per round. Nobody draws
themselves, their partner, or anyone they already drew in an earlier round.

Typical use:

1. Check that the roster supports the number of rounds:
     $ elf check --roster elves.yml --rounds 2
2. Preview the messages without sending anything:
     $ elf draw --roster elves.yml
3. Draw for real and email everyone (EMAIL_USERNAME and EMAIL_PASSWORD must be set):
     $ elf send --roster elves.yml
`,

		CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "YAML config file")
	pf.StringVar(&flags.roster, "roster", "", "YAML roster file (overrides roster.path)")
	pf.IntVar(&flags.rounds, "rounds", 0, "number of rounds to draw (overrides rounds)")
	pf.StringVar(&flags.seed, "seed", "", "seed phrase for a reproducible draw (overrides draw.seed)")
	pf.StringVar(&flags.strategy, "strategy", "", `draw strategy, "rejection" or "matching" (overrides draw.strategy)`)
	pf.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&flags.natsURL, "nats-url", "", "NATS server to publish reports to (overrides publish.url)")
	pf.StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile (overrides metrics.textfile)")

	rootCmd.AddCommand(
		NewDrawCmd(flags),
		NewSendCmd(flags),
		NewCheckCmd(flags),
	)

	return rootCmd
}
