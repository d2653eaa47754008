package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/garnizeh/feedback/internal/config"
	"github.com/garnizeh/feedback/internal/db"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	out := flag.String("out", "", "Backup file (defaults to <database path>.bak)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Driver != config.DriverSQLite {
		fmt.Fprintf(os.Stderr, "Backup error: only the sqlite driver is supported, use pg_dump for %s\n", cfg.Database.Driver)
		os.Exit(1)
	}

	dst := *out
	if dst == "" {
		dst = cfg.Database.Path + ".bak"
	}

	ctx := context.Background()
	database, err := db.New(ctx, db.DSN(cfg.Database.Path), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.Backup(ctx, dst); err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database backup completed: %s\n", dst)
}
