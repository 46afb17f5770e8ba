package jspull

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/caarlos0/env/v7"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/jspull/ident"
)

// EnvPrefix is the prefix of every environment variable LoadEnv reads,
// e.g. JSPULL_STREAM or JSPULL_PULL_EXPIRES.
const EnvPrefix = "JSPULL_"

// Config configures one Run of the pull example.
//
// All duration fields accept standard Go duration strings like "500ms", "2s".
type Config struct {
	// Stream is the name of the stream to create. Run fails if it already
	// exists. Empty generates a unique name.
	Stream string `yaml:"stream" env:"STREAM"`

	// Subject is the subject the stream captures and messages are published
	// to. Empty generates a unique subject.
	Subject string `yaml:"subject" env:"SUBJECT"`

	// Durable is the pull consumer name. Empty derives one from Stream and
	// Subject.
	Durable string `yaml:"durable" env:"DURABLE"`

	// Prefix starts every payload; message x carries Prefix followed by x.
	Prefix string `yaml:"prefix" env:"PREFIX"`

	// Count is how many messages are published.
	Count int `yaml:"count" env:"COUNT"`

	// BatchSize is the batch of the single pull request.
	// A batch larger than Count demonstrates the 408 that ends an unfilled pull.
	BatchSize int `yaml:"batchSize" env:"BATCH_SIZE"`

	// PullExpires is how long the pull request stays open on the server.
	PullExpires time.Duration `yaml:"pullExpires" env:"PULL_EXPIRES"`

	// NextMessageTimeout is how long the reader waits for each message
	// before it considers the subscription drained.
	NextMessageTimeout time.Duration `yaml:"nextMessageTimeout" env:"NEXT_MESSAGE_TIMEOUT"`

	// OperationTimeout bounds each JetStream API call (stream and consumer
	// management, synchronous publish).
	OperationTimeout time.Duration `yaml:"operationTimeout" env:"OPERATION_TIMEOUT"`

	// DontWait publishes in the background without waiting for acks, so
	// the pull races the publisher. Payloads then read Prefix-x.
	DontWait bool `yaml:"dontWait" env:"DONT_WAIT"`

	// MsgID attaches a unique Nats-Msg-Id to every published message.
	MsgID bool `yaml:"msgId" env:"MSG_ID"`

	// Verbose echoes published, read and fetched messages to the output.
	Verbose bool `yaml:"verbose" env:"VERBOSE"`

	// Cleanup deletes the stream after the run.
	Cleanup bool `yaml:"cleanup" env:"CLEANUP"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Stream and Subject are left empty; SetDefaults generates unique names for
// them so repeated runs against one server do not collide.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Prefix:             "m",
		Count:              10,
		BatchSize:          10,
		PullExpires:        2 * time.Second,
		NextMessageTimeout: time.Second,
		OperationTimeout:   10 * time.Second,
		Verbose:            true,
		Cleanup:            true,
	}
}

// SetDefaults fills in missing configuration values.
//
// Boolean fields are left alone since their zero value is meaningful.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Stream == "" || cfg.Subject == "" {
		unique := ident.UniqueEnough()
		if cfg.Stream == "" {
			cfg.Stream = "stream-" + unique
		}
		if cfg.Subject == "" {
			cfg.Subject = "subject-" + unique
		}
	}
	if cfg.Prefix == "" {
		cfg.Prefix = defaults.Prefix
	}
	if cfg.Count == 0 {
		cfg.Count = defaults.Count
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.PullExpires == 0 {
		cfg.PullExpires = defaults.PullExpires
	}
	if cfg.NextMessageTimeout == 0 {
		cfg.NextMessageTimeout = defaults.NextMessageTimeout
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
}

// Validate checks configuration constraints.
//
// Returns:
//   - error: Error wrapping ErrInvalidConfig that names the offending field, nil if valid
func (cfg *Config) Validate() error {
	switch {
	case cfg.Stream == "":
		return fmt.Errorf("%w: Stream must not be empty", ErrInvalidConfig)
	case cfg.Subject == "":
		return fmt.Errorf("%w: Subject must not be empty", ErrInvalidConfig)
	case cfg.Count <= 0:
		return fmt.Errorf("%w: Count must be > 0, got %d", ErrInvalidConfig, cfg.Count)
	case cfg.BatchSize <= 0:
		return fmt.Errorf("%w: BatchSize must be > 0, got %d", ErrInvalidConfig, cfg.BatchSize)
	case cfg.PullExpires < 0:
		return fmt.Errorf("%w: PullExpires must be >= 0, got %v", ErrInvalidConfig, cfg.PullExpires)
	case cfg.NextMessageTimeout <= 0:
		return fmt.Errorf("%w: NextMessageTimeout must be > 0, got %v", ErrInvalidConfig, cfg.NextMessageTimeout)
	case cfg.OperationTimeout <= 0:
		return fmt.Errorf("%w: OperationTimeout must be > 0, got %v", ErrInvalidConfig, cfg.OperationTimeout)
	}

	return nil
}

// ValidateWithWarnings logs warnings for values that are valid but likely
// not what the operator wants.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.PullExpires > 0 && cfg.BatchSize > cfg.Count && cfg.NextMessageTimeout <= cfg.PullExpires {
		logger.Warn(
			"reader gives up before the pull request expires, the 408 ending the unfilled batch will be missed",
			"nextMessageTimeout", cfg.NextMessageTimeout,
			"pullExpires", cfg.PullExpires,
			"recommended", cfg.PullExpires+time.Second,
		)
	}
}

// LoadYAML decodes a Config from r and applies defaults. An empty document
// yields the defaults.
//
// Example:
//
//	f, _ := os.Open("jspull.yaml")
//	defer f.Close()
//	cfg, err := jspull.LoadYAML(f)
func LoadYAML(r io.Reader) (Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	SetDefaults(&cfg)

	return cfg, nil
}

// LoadEnv builds a Config from JSPULL_* environment variables and applies
// defaults.
func LoadEnv() (Config, error) {
	var cfg Config
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	SetDefaults(&cfg)

	return cfg, nil
}

// ApplyEnv overrides fields of cfg with the JSPULL_* variables that are set.
// Fields without a variable keep their value, so it layers on top of a file.
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, nil)
}

// applyEnv reads from environment instead of the process environment when
// it is not nil.
func applyEnv(cfg *Config, environment map[string]string) error {
	if err := env.Parse(cfg, env.Options{Prefix: EnvPrefix, Environment: environment}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	return nil
}
