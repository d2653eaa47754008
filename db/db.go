package db

import "embed"

//go:embed migrations/sqlite/*.sql
var SQLiteMigrations embed.FS

//go:embed migrations/postgres/*.sql
var PostgresMigrations embed.FS

//go:embed seed/*.yaml
var SeedFiles embed.FS
