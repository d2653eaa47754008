// Package logger builds the process-wide slog logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a logger writing to stdout.
func New(cfg *Config) (*slog.Logger, error) {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg *Config, w io.Writer) (*slog.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}
	return slog.New(handler(cfg, w)), nil
}

func handler(cfg *Config, w io.Writer) slog.Handler {
	switch cfg.Format {
	case "text":
		return tint.NewHandler(w, &tint.Options{
			Level:      cfg.SlogLevel(),
			AddSource:  cfg.AddSource,
			TimeFormat: time.TimeOnly,
			NoColor:    true,
		})
	default:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.SlogLevel(),
			AddSource: cfg.AddSource,
		})
	}
}
