package logger

import (
	"log/slog"

	. "github.com/go-ozzo/ozzo-validation"
)

type Config struct {
	Level     string `yaml:"level" env:"FEEDBACK_LOG_LEVEL" env-default:"info"`
	Format    string `yaml:"format" env:"FEEDBACK_LOG_FORMAT" env-default:"json"`
	AddSource bool   `yaml:"add_source" env:"FEEDBACK_LOG_ADD_SOURCE" env-default:"false"`
}

func (c *Config) Validate() error {
	return ValidateStruct(c,
		Field(&c.Level, Required, In("debug", "info", "warn", "error")),
		Field(&c.Format, Required, In("json", "text")),
	)
}

func (c *Config) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
