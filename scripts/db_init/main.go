package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	dbfs "github.com/garnizeh/feedback/db"
	"github.com/garnizeh/feedback/internal/config"
	"github.com/garnizeh/feedback/internal/logger"
	"github.com/garnizeh/feedback/internal/seed"
	"github.com/garnizeh/feedback/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	withSeed := flag.Bool("seed", false, "Load demo users, teams and feedback")
	fixture := flag.String("fixture", "", "Seed fixture file (defaults to the embedded demo data)")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	// storage.Open runs the migrations
	h, err := storage.Open(ctx, &cfg.Database, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer h.Close()

	if *withSeed {
		var fx *seed.Fixture
		if *fixture != "" {
			fx, err = seed.LoadFS(os.DirFS("."), *fixture)
		} else {
			fx, err = seed.LoadFS(dbfs.SeedFiles, "seed/demo.yaml")
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
			os.Exit(1)
		}
		if err := seed.New(h.Store, log).Apply(ctx, fx); err != nil {
			fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("Database initialized successfully.")
}
