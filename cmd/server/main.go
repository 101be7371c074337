// Taskdesk — a local, single-user task manager served over HTTP, persisting
// everything as JSON documents on local disk.
//
// Architecture:
//
//	main.go                entry point: loads config, starts the server, waits for SIGINT/SIGTERM
//	config/config.go       YAML config with TASKDESK_* env overrides
//	storage/atomic.go      crash-safe JSON writes: temp file + fsync + rename under a file lock
//	storage/collection.go  generic list-document store (tasks.json, projects.json)
//	storage/single.go      single-value document store (settings.json)
//	model/                 Task / Project / Settings records and legacy-field normalization
//	service/               filtered listings, partial updates, project lifecycle, backups
//	api/                   HTTP CRUD routes, CORS, WebSocket change feed
//	watch/watcher.go       data-dir watcher surfacing external file edits to connected UIs
//
// Durability model:
//
//	Every mutation rewrites the whole document atomically; a crash leaves
//	either the old or the new file, never a partial one. Every read starts
//	from disk, so edits made outside the process are always visible. A
//	corrupted document reads as empty — availability over strictness.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"taskdesk/internal/api"
	"taskdesk/internal/config"
	"taskdesk/internal/service"
	"taskdesk/internal/watch"
)

func main() {
	cfgPath := "configs/config.yaml"
	if p := os.Getenv("TASKDESK_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", cfgPath)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Set up logger
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Logging.Level)}
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	tasks, err := service.NewTaskService(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Error("failed to open task store", "error", err)
		os.Exit(1)
	}
	projects, err := service.NewProjectService(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Error("failed to open project store", "error", err)
		os.Exit(1)
	}
	settings, err := service.NewSettingsService(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Error("failed to open settings store", "error", err)
		os.Exit(1)
	}

	server := api.NewServer(*cfg, tasks, projects, settings, logger)

	var watcher *watch.Watcher
	if cfg.Watcher.Enabled {
		watcher, err = watch.New(cfg.Storage.DataDir, cfg.Watcher.Debounce, server.NotifyStorageChanged, logger)
		if err != nil {
			logger.Error("failed to start watcher", "error", err)
			os.Exit(1)
		}
		go watcher.Run()
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("taskdesk started",
		"url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port),
		"data_dir", cfg.Storage.DataDir,
		"watcher", cfg.Watcher.Enabled,
	)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig.String())

	if watcher != nil {
		watcher.Stop()
	}
	if err := server.Stop(); err != nil {
		logger.Error("failed to stop server", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
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
