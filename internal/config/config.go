// Package config centralises configuration parsing for the fitness tracker.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config captures runtime configuration values. An empty PostgresURL selects
// the in-memory store.
type Config struct {
	HTTPAddress        string        `env:"HTTP_ADDRESS" env-default:":8080"`
	HTTPReadTimeout    time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	HTTPWriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m"`
	HTTPIdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	HTTPMaxBodyBytes   int64         `env:"HTTP_MAX_BODY_BYTES" env-default:"1048576"`
	PostgresURL        string        `env:"POSTGRES_URL"`
	MigrateOnStart     bool          `env:"MIGRATE_ON_START" env-default:"true"`
	KafkaBrokers       []string      `env:"KAFKA_BROKERS" env-separator:","`
	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" env-default:"2s"`
	OutboxBatchSize    int           `env:"OUTBOX_BATCH_SIZE" env-default:"25"`
	JWTSecret          string        `env:"JWT_SECRET" env-default:"dev-secret-change-me"`
	JWTIssuer          string        `env:"JWT_ISSUER" env-default:"topform"`
	JWTTTL             time.Duration `env:"JWT_TTL" env-default:"24h"`
	GeneratorURL       string        `env:"GENERATOR_URL"`
	GeneratorTimeout   time.Duration `env:"GENERATOR_TIMEOUT" env-default:"0s"`
	CORSOrigins        []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
	MetricsAddress     string        `env:"METRICS_ADDRESS" env-default:":9102"`
	ConsumerGroup      string        `env:"CONSUMER_GROUP" env-default:"topform-audit"`
	ConsumerTopics     []string      `env:"CONSUMER_TOPICS" env-separator:"," env-default:"topform.workouts,topform.diets,topform.users"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Load reads environment variables into Config, applying defaults for local dev.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	cfg.KafkaBrokers = splitAndTrim(cfg.KafkaBrokers)
	cfg.CORSOrigins = splitAndTrim(cfg.CORSOrigins)
	cfg.ConsumerTopics = splitAndTrim(cfg.ConsumerTopics)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

// Validate rejects combinations the services cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.OutboxBatchSize <= 0 {
		return errors.New("OUTBOX_BATCH_SIZE must be positive")
	}
	if c.OutboxPollInterval <= 0 {
		return errors.New("OUTBOX_POLL_INTERVAL must be positive")
	}
	if c.HTTPMaxBodyBytes <= 0 {
		return errors.New("HTTP_MAX_BODY_BYTES must be positive")
	}
	return nil
}

// UsesPostgres reports whether a database is configured.
func (c Config) UsesPostgres() bool {
	return strings.TrimSpace(c.PostgresURL) != ""
}

func splitAndTrim(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
