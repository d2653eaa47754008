package postgres

import (
	"fmt"
	"time"

	. "github.com/go-ozzo/ozzo-validation"
)

// Config describes a postgres connection pool.
type Config struct {
	URL               string        `yaml:"url" env:"FEEDBACK_POSTGRES_URL"`
	MaxConns          int32         `yaml:"max_conns" env:"FEEDBACK_POSTGRES_MAX_CONNS" env-default:"10"`
	MinConns          int32         `yaml:"min_conns" env:"FEEDBACK_POSTGRES_MIN_CONNS" env-default:"1"`
	MaxConnLifetime   time.Duration `yaml:"max_conn_lifetime" env:"FEEDBACK_POSTGRES_MAX_CONN_LIFETIME" env-default:"1h"`
	MaxConnIdleTime   time.Duration `yaml:"max_conn_idle_time" env:"FEEDBACK_POSTGRES_MAX_CONN_IDLE_TIME" env-default:"30m"`
	HealthCheckPeriod time.Duration `yaml:"health_check_period" env:"FEEDBACK_POSTGRES_HEALTH_CHECK_PERIOD" env-default:"1m"`
	MigrationTable    string        `yaml:"migration_table" env:"FEEDBACK_POSTGRES_MIGRATION_TABLE" env-default:"schema_version"`
	MigrationTimeout  time.Duration `yaml:"migration_timeout" env:"FEEDBACK_POSTGRES_MIGRATION_TIMEOUT" env-default:"1m"`
}

func (c *Config) Validate() error {
	return ValidateStruct(c,
		Field(&c.URL, Required),
		Field(&c.MaxConns, Required, Min(int32(1)), Max(int32(1000))),
		Field(&c.MinConns, Min(int32(0)), By(c.validateMinConns)),
		Field(&c.MaxConnLifetime, Required, Min(time.Minute)),
		Field(&c.MaxConnIdleTime, Required, Min(time.Second)),
		Field(&c.HealthCheckPeriod, Required, Min(time.Second)),
		Field(&c.MigrationTable, Required),
		Field(&c.MigrationTimeout, Required, Min(time.Second)),
	)
}

func (c *Config) validateMinConns(value interface{}) error {
	minConns, ok := value.(int32)
	if !ok {
		return fmt.Errorf("min_conns must be an int32")
	}
	if minConns > c.MaxConns {
		return fmt.Errorf("min_conns (%d) cannot be greater than max_conns (%d)", minConns, c.MaxConns)
	}
	return nil
}
