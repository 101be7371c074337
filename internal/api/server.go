// Package api exposes the task manager over HTTP: plain CRUD routes for
// tasks, projects, and settings, a health endpoint, a manual backup trigger,
// and a WebSocket change feed that lets UIs react to mutations and external
// file edits without polling.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"taskdesk/internal/config"
	"taskdesk/internal/service"
)

const (
	serviceName    = "taskdesk"
	serviceVersion = "1.0.0"
)

// Server runs the HTTP/WebSocket API.
type Server struct {
	cfg      config.Config
	hub      *Hub
	handlers *Handlers
	server   *http.Server
	logger   *slog.Logger
}

// NewServer wires the services into an HTTP server. Call Start to listen.
func NewServer(
	cfg config.Config,
	tasks *service.TaskService,
	projects *service.ProjectService,
	settings *service.SettingsService,
	logger *slog.Logger,
) *Server {
	hub := NewHub(logger)
	handlers := NewHandlers(tasks, projects, settings, cfg, hub, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handlers.HandleHealth)

	mux.HandleFunc("GET /api/v1/tasks", handlers.HandleListTasks)
	mux.HandleFunc("POST /api/v1/tasks", handlers.HandleCreateTask)
	mux.HandleFunc("GET /api/v1/tasks/{id}", handlers.HandleGetTask)
	mux.HandleFunc("PUT /api/v1/tasks/{id}", handlers.HandleUpdateTask)
	mux.HandleFunc("DELETE /api/v1/tasks/{id}", handlers.HandleDeleteTask)
	mux.HandleFunc("PATCH /api/v1/tasks/{id}/status", handlers.HandleSetTaskStatus)

	mux.HandleFunc("GET /api/v1/projects", handlers.HandleListProjects)
	mux.HandleFunc("POST /api/v1/projects", handlers.HandleCreateProject)
	mux.HandleFunc("GET /api/v1/projects/{name}", handlers.HandleGetProject)
	mux.HandleFunc("DELETE /api/v1/projects/{name}", handlers.HandleDeleteProject)

	mux.HandleFunc("GET /api/v1/settings", handlers.HandleGetSettings)
	mux.HandleFunc("PUT /api/v1/settings", handlers.HandleUpdateSettings)
	mux.HandleFunc("PATCH /api/v1/settings", handlers.HandlePatchSettings)

	mux.HandleFunc("POST /api/v1/backups", handlers.HandleCreateBackup)

	mux.HandleFunc("GET /ws", handlers.HandleWebSocket)

	s := &Server{
		cfg:      cfg,
		hub:      hub,
		handlers: handlers,
		logger:   logger.With("component", "api-server"),
	}
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.withCORS(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the server's root handler, CORS included. Used by tests
// to drive the API through httptest without a listener.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// NotifyStorageChanged broadcasts a storage.changed event for a data file
// modified outside the API (external edit, other process). Wired to the
// directory watcher.
func (s *Server) NotifyStorageChanged(file string) {
	s.hub.Broadcast(ChangeEvent{
		Type:      EventStorageChanged,
		Timestamp: time.Now().UTC(),
		Data:      map[string]string{"file": file},
	})
}

// Start starts the WebSocket hub and the HTTP listener. Blocks until the
// listener stops.
func (s *Server) Start() error {
	go s.hub.Run()

	s.logger.Info("api server starting", "addr", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop() error {
	s.logger.Info("stopping api server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
