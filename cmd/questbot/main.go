package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/questbot/internal/cli"
	"github.com/alexanderramin/questbot/internal/config"
	"github.com/alexanderramin/questbot/internal/db"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warn("ignoring environment overrides", "error", err)
	}

	// A broken catalog file falls back to the built-in activities.
	catalog, err := config.LoadActivities(cfg.ActivitiesFile)
	if err != nil {
		logger.Warn("ignoring break activities file", "path", cfg.ActivitiesFile, "error", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	app := cli.NewApp(database, cfg, catalog, logger)
	defer app.Close()

	// Detect interactive terminal for the timer screen and prompts.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
