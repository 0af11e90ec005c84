package elf

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Draw strategy names accepted in DrawConfig.Strategy.
const (
	StrategyRejection = "rejection"
	StrategyMatching  = "matching"
)

// RosterConfig locates the roster document.
type RosterConfig struct {
	// Path is the YAML roster file.
	Path string `yaml:"path"`
}

// DrawConfig controls how rounds are drawn.
type DrawConfig struct {
	// Strategy selects the draw algorithm: "rejection" (default) or "matching".
	//
	// Rejection sampling picks uniformly among all valid rounds. Matching always
	// terminates quickly but does not guarantee a uniform pick.
	Strategy string `yaml:"strategy"`

	// MaxAttempts bounds rejection sampling per round.
	// Default: 10000
	MaxAttempts int `yaml:"maxAttempts"`

	// Seed makes draws reproducible when set. Anyone holding the seed and the
	// roster can recompute every assignment.
	Seed string `yaml:"seed"`

	// SkipFeasibilityCheck disables proving that a round exists before sampling.
	// Without the check an infeasible round is only detected once MaxAttempts is spent.
	SkipFeasibilityCheck bool `yaml:"skipFeasibilityCheck"`

	// SymmetricPartners makes every partner link two-way at load time.
	// When false a one-way link only excludes the participant who wrote it.
	SymmetricPartners bool `yaml:"symmetricPartners"`
}

// MailConfig configures SMTP delivery. Credentials come from the environment
// (see LoadCredentials).
type MailConfig struct {
	Host string `yaml:"host"`

	// Port 465 uses implicit TLS, any other port requires STARTTLS.
	Port int `yaml:"port"`

	// From defaults to the SMTP username.
	From string `yaml:"from"`

	// Signature closes every message.
	Signature string `yaml:"signature"`

	// SubjectTemplate is a text/template over .Name, .Email and .Recipients.
	SubjectTemplate string `yaml:"subjectTemplate"`

	// Timeout applies to the SMTP connection.
	Timeout time.Duration `yaml:"timeout"`
}

// PublishConfig configures report publishing to NATS JetStream KV.
// Publishing is disabled while URL is empty.
type PublishConfig struct {
	URL       string `yaml:"url"`
	Bucket    string `yaml:"bucket"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Namespace string `yaml:"namespace"`

	// Textfile, when set, receives the metrics in text exposition format after
	// each run (for the node_exporter textfile collector).
	Textfile string `yaml:"textfile"`
}

// Config is the configuration for an Exchange.
//
// Duration fields accept standard Go duration strings like "30s" or "1m".
type Config struct {
	// Rounds is how many rounds Run draws before notifying.
	// Default: 2
	Rounds int `yaml:"rounds"`

	// OperationTimeout bounds loading and delivery in Run (0 = no limit).
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	Roster  RosterConfig  `yaml:"roster"`
	Draw    DrawConfig    `yaml:"draw"`
	Mail    MailConfig    `yaml:"mail"`
	Publish PublishConfig `yaml:"publish"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Rounds:           2,
		OperationTimeout: 2 * time.Minute,
		Roster: RosterConfig{
			Path: "elves.yml",
		},
		Draw: DrawConfig{
			Strategy:    StrategyRejection,
			MaxAttempts: 10000,
		},
		Mail: MailConfig{
			Host:      "smtp.gmail.com",
			Port:      465,
			Signature: "Santa",
			Timeout:   30 * time.Second,
		},
		Publish: PublishConfig{
			Bucket:    "elf-reports",
			KeyPrefix: "report",
		},
		Metrics: MetricsConfig{
			Namespace: "elf",
		},
	}
}

// SetDefaults fills in missing configuration values with defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Rounds == 0 {
		cfg.Rounds = defaults.Rounds
	}
	if cfg.Roster.Path == "" {
		cfg.Roster.Path = defaults.Roster.Path
	}
	if cfg.Draw.Strategy == "" {
		cfg.Draw.Strategy = defaults.Draw.Strategy
	}
	if cfg.Draw.MaxAttempts == 0 {
		cfg.Draw.MaxAttempts = defaults.Draw.MaxAttempts
	}
	if cfg.Mail.Host == "" {
		cfg.Mail.Host = defaults.Mail.Host
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = defaults.Mail.Port
	}
	if cfg.Mail.Signature == "" {
		cfg.Mail.Signature = defaults.Mail.Signature
	}
	if cfg.Mail.Timeout == 0 {
		cfg.Mail.Timeout = defaults.Mail.Timeout
	}
	if cfg.Publish.Bucket == "" {
		cfg.Publish.Bucket = defaults.Publish.Bucket
	}
	if cfg.Publish.KeyPrefix == "" {
		cfg.Publish.KeyPrefix = defaults.Publish.KeyPrefix
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = defaults.Metrics.Namespace
	}
	// OperationTimeout of 0 is valid (no limit), so we don't apply default
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Rules:
//   - Rounds >= 1
//   - Draw.Strategy is "rejection" or "matching"
//   - Draw.MaxAttempts >= 1
//   - Mail.Port in 1..65535
//   - OperationTimeout >= 0
//
// Returns:
//   - error: ErrInvalidConfig wrapped with an explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.Rounds < 1 {
		return fmt.Errorf("%w: rounds must be >= 1, got %d", ErrInvalidConfig, cfg.Rounds)
	}

	switch cfg.Draw.Strategy {
	case StrategyRejection, StrategyMatching:
	default:
		return fmt.Errorf("%w: unknown draw strategy %q (want %q or %q)",
			ErrInvalidConfig, cfg.Draw.Strategy, StrategyRejection, StrategyMatching)
	}

	if cfg.Draw.MaxAttempts < 1 {
		return fmt.Errorf("%w: draw.maxAttempts must be >= 1, got %d", ErrInvalidConfig, cfg.Draw.MaxAttempts)
	}

	if cfg.Mail.Port < 1 || cfg.Mail.Port > 65535 {
		return fmt.Errorf("%w: mail.port out of range: %d", ErrInvalidConfig, cfg.Mail.Port)
	}

	if cfg.OperationTimeout < 0 {
		return fmt.Errorf("%w: operationTimeout must be >= 0, got %v", ErrInvalidConfig, cfg.OperationTimeout)
	}

	return nil
}

// ValidateWithWarnings logs warnings for valid but risky values.
//
// This is called after Validate() in NewExchange() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.Draw.Strategy == StrategyRejection && cfg.Draw.MaxAttempts < 1000 {
		logger.Warn(
			"draw.maxAttempts is low, feasible rounds may be reported as exhausted",
			"maxAttempts", cfg.Draw.MaxAttempts,
			"recommended", 10000,
		)
	}

	if cfg.Draw.SkipFeasibilityCheck && cfg.Draw.Strategy == StrategyRejection {
		logger.Warn("feasibility check disabled, infeasible rounds will spend the full retry budget")
	}

	if cfg.Draw.Seed != "" {
		logger.Warn("draw seed is set, assignments can be recomputed by anyone who knows it")
	}

	if cfg.Draw.Strategy == StrategyMatching {
		logger.Info("matching strategy does not pick uniformly among valid rounds")
	}
}

// TestConfig returns a configuration for fast, reproducible tests.
//
// Returns:
//   - Config: Configuration with a fixed seed and a small retry budget
//
// Example:
//
//	cfg := elf.TestConfig()
//	cfg.Rounds = 3
//	ex, err := elf.NewExchange(&cfg, src, strat, notifier)
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.Draw.Seed = "test"
	cfg.Draw.MaxAttempts = 2000
	cfg.OperationTimeout = 5 * time.Second
	cfg.Mail.Timeout = time.Second

	return cfg
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
//
// Keys missing from the file keep their default values.
//
// Parameters:
//   - path: Config file path
//
// Returns:
//   - Config: Parsed configuration (not yet validated)
//   - error: Read or parse error
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}
