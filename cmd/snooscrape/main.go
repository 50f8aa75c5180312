package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"snooscrape/internal/agent"
	"snooscrape/internal/app"
	"snooscrape/internal/config"
	"snooscrape/internal/dashboard"
	"snooscrape/internal/ui"
)

func main() {
	envPath := flag.String("env", ".env", "path to the environment file")
	dashboardMode := flag.Bool("dashboard", false, "serve charts over saved snapshots instead of the scraper UI")
	flag.Parse()

	cfg, err := config.Load(*envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	if *dashboardMode {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		server := dashboard.NewServer(cfg.Output.Dir, logger)
		if err := server.Start(cfg.Dashboard.Port); err != nil {
			logger.Error("dashboard failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// The terminal UI owns stdout, so file logs carry the JSON stream
	// and the UI handler mirrors records into the log pane.
	logFile, err := openLogFile(cfg.Output.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	fileHandler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})

	// The UI handler is wired through a late-bound pointer because the
	// logger has to exist before the application that displays it.
	var application *app.App
	uiHandler := app.NewUIHandler(func(msg ui.LogMsg) {
		if application != nil {
			application.Send(msg)
		}
	}, slog.LevelInfo)
	logger := slog.New(app.NewTeeHandler(fileHandler, uiHandler))
	slog.SetDefault(logger)

	orch := agent.NewOrchestrator(cfg.App.Name, cfg.App.UserID, agent.BuildDeps(cfg, logger), logger)
	application = app.New(orch, logger)

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "snooscrape.log")
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}
