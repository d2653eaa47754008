// Package config loads the server configuration from an optional YAML file
// and FEEDBACK_* environment variables.
package config

import (
	"fmt"
	"time"

	. "github.com/go-ozzo/ozzo-validation"
	"github.com/ilyakaznacheev/cleanenv"

	pgdb "github.com/garnizeh/feedback/internal/db/postgres"
	"github.com/garnizeh/feedback/internal/logger"
)

// DefaultJWTSecret is only accepted in development.
const DefaultJWTSecret = "supersecretkey"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	EnvDevelopment = "development"
)

type Config struct {
	Env        string        `yaml:"env" env:"FEEDBACK_ENV" env-default:"production"`
	Addr       string        `yaml:"addr" env:"FEEDBACK_ADDR" env-default:":8080"`
	JWTSecret  string        `yaml:"jwt_secret" env:"FEEDBACK_JWT_SECRET" env-default:"supersecretkey"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"FEEDBACK_TOKEN_TTL" env-default:"24h"`
	APITimeout time.Duration `yaml:"timeout" env:"FEEDBACK_API_TIMEOUT" env-default:"15s"`

	Database DatabaseConfig `yaml:"database"`
	Log      logger.Config  `yaml:"log"`
}

type DatabaseConfig struct {
	Driver   string      `yaml:"driver" env:"FEEDBACK_DB_DRIVER" env-default:"sqlite"`
	Path     string      `yaml:"path" env:"FEEDBACK_DATABASE_PATH" env-default:"feedback.db"`
	Postgres pgdb.Config `yaml:"postgres"`
}

// LoadConfig reads path (if not empty) and then the environment, which takes
// precedence over the file. Unset fields receive their defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read environment: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func (c *Config) Validate() error {
	err := ValidateStruct(c,
		Field(&c.Addr, Required),
		Field(&c.JWTSecret, Required, By(c.checkSecret)),
		Field(&c.TokenTTL, Required, Min(time.Second)),
		Field(&c.APITimeout, Required, Min(time.Millisecond)),
	)
	if err != nil {
		return err
	}

	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	return nil
}

func (c *Config) checkSecret(value interface{}) error {
	if s, _ := value.(string); s == DefaultJWTSecret && !c.IsDevelopment() {
		return fmt.Errorf("the default secret is only allowed when FEEDBACK_ENV=%s", EnvDevelopment)
	}
	return nil
}

func (d *DatabaseConfig) Validate() error {
	err := ValidateStruct(d,
		Field(&d.Driver, Required, In(DriverSQLite, DriverPostgres)),
	)
	if err != nil {
		return err
	}

	switch d.Driver {
	case DriverSQLite:
		return ValidateStruct(d, Field(&d.Path, Required))
	case DriverPostgres:
		return d.Postgres.Validate()
	}
	return nil
}
