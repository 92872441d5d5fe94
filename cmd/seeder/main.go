package main

import (
	"log/slog"
	"os"

	"officehub-backend/config"
	"officehub-backend/internal/database"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("officehub-seeder", pflag.ContinueOnError)
	configPath := flags.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	// Separate binary, so load .env here too
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, using system environment")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(config.NewLogger(cfg, os.Stdout))

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		slog.Error("connect database", "error", err)
		os.Exit(1)
	}

	slog.Info("seeding database")
	if err := database.SeedAll(db, database.SeedOptions{
		OwnerEmail:    cfg.SeedOwnerEmail,
		OwnerPassword: cfg.SeedOwnerPassword,
	}); err != nil {
		slog.Error("seed", "error", err)
		os.Exit(1)
	}
	slog.Info("seeding done")
}
