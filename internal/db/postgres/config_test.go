package postgres_test

import (
	"testing"
	"time"

	"github.com/garnizeh/feedback/internal/db/postgres"
)

func validConfig() postgres.Config {
	return postgres.Config{
		URL:               "postgres://localhost:5432/feedback",
		MaxConns:          10,
		MinConns:          1,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
		MigrationTable:    "schema_version",
		MigrationTimeout:  time.Minute,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *postgres.Config)
		wantErr bool
	}{
		{name: "Valid", mutate: func(c *postgres.Config) {}},
		{name: "MissingURL", mutate: func(c *postgres.Config) { c.URL = "" }, wantErr: true},
		{name: "MinAboveMax", mutate: func(c *postgres.Config) { c.MinConns = 20 }, wantErr: true},
		{name: "ZeroMaxConns", mutate: func(c *postgres.Config) { c.MaxConns = 0 }, wantErr: true},
		{name: "MissingMigrationTable", mutate: func(c *postgres.Config) { c.MigrationTable = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
