// Package config loads liftlog settings from a YAML file with LIFTLOG_*
// environment overrides.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const minSecretLen = 32

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	AI         AIConfig         `yaml:"ai"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Tailscale  TailscaleConfig  `yaml:"tailscale"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"             env:"LIFTLOG_SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"LIFTLOG_SERVER_PORT"             env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"LIFTLOG_SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"   env:"LIFTLOG_DB_DRIVER"   env-default:"postgres"`
	Host     string `yaml:"host"     env:"LIFTLOG_DB_HOST"`
	Port     int    `yaml:"port"     env:"LIFTLOG_DB_PORT"     env-default:"5432"`
	Name     string `yaml:"name"     env:"LIFTLOG_DB_NAME"`
	User     string `yaml:"user"     env:"LIFTLOG_DB_USER"`
	Password string `yaml:"password" env:"LIFTLOG_DB_PASSWORD"`
	SSLMode  string `yaml:"sslmode"  env:"LIFTLOG_DB_SSLMODE"`
	// Path is the database file when Driver is sqlite.
	Path string `yaml:"path" env:"LIFTLOG_DB_PATH" env-default:"liftlog.db"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"LIFTLOG_AUTH_JWT_SECRET"`
	Issuer    string `yaml:"issuer"     env:"LIFTLOG_AUTH_ISSUER"     env-default:"liftlog"`
}

// AIConfig configures the fallback parser. A missing API key leaves the
// fallback enabled but every call degrades to the grammar result.
type AIConfig struct {
	Enabled   bool          `yaml:"enabled"    env:"LIFTLOG_AI_ENABLED"    env-default:"true"`
	APIKey    string        `yaml:"api_key"    env:"LIFTLOG_AI_API_KEY"`
	Model     string        `yaml:"model"      env:"LIFTLOG_AI_MODEL"      env-default:"claude-sonnet-4-5"`
	BaseURL   string        `yaml:"base_url"   env:"LIFTLOG_AI_BASE_URL"`
	Timeout   time.Duration `yaml:"timeout"    env:"LIFTLOG_AI_TIMEOUT"    env-default:"20s"`
	MaxTokens int64         `yaml:"max_tokens" env:"LIFTLOG_AI_MAX_TOKENS" env-default:"2048"`
}

type VocabularyConfig struct {
	// Path is an optional YAML file extending the built-in vocabulary.
	Path string `yaml:"path" env:"LIFTLOG_VOCABULARY_PATH"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"   env:"LIFTLOG_TAILSCALE_ENABLED"`
	Hostname string `yaml:"hostname"  env:"LIFTLOG_TAILSCALE_HOSTNAME"  env-default:"liftlog"`
	StateDir string `yaml:"state_dir" env:"LIFTLOG_TAILSCALE_STATE_DIR" env-default:"tsnet-state"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies LIFTLOG_* environment
// overrides and defaults. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("reading environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}

	if len(c.Auth.JWTSecret) < minSecretLen {
		return fmt.Errorf("auth.jwt_secret must be at least %d characters", minSecretLen)
	}

	if c.AI.Enabled {
		if c.AI.Model == "" {
			return fmt.Errorf("ai.model is required when ai is enabled")
		}
		if c.AI.MaxTokens <= 0 {
			return fmt.Errorf("ai.max_tokens must be positive")
		}
	}
	return nil
}
