package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"taskdesk/internal/config"
	"taskdesk/internal/model"
	"taskdesk/internal/service"
	"taskdesk/internal/storage"
)

// Handlers holds all HTTP handler dependencies.
type Handlers struct {
	tasks    *service.TaskService
	projects *service.ProjectService
	settings *service.SettingsService
	cfg      config.Config
	hub      *Hub
	logger   *slog.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	tasks *service.TaskService,
	projects *service.ProjectService,
	settings *service.SettingsService,
	cfg config.Config,
	hub *Hub,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		tasks:    tasks,
		projects: projects,
		settings: settings,
		cfg:      cfg,
		hub:      hub,
		logger:   logger.With("component", "api-handlers"),
	}
}

// HandleHealth returns service identity and status.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: serviceName,
		Version: serviceVersion,
	})
}

// HandleListTasks returns tasks, optionally filtered by exact status,
// priority, and project match.
func (h *Handlers) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks := h.tasks.List(service.TaskFilter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Project:  q.Get("project"),
	})
	writeJSON(w, http.StatusOK, taskListResponse{Tasks: tasks, Count: len(tasks)})
}

// HandleCreateTask creates a task from the request body.
func (h *Handlers) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Priority != "" && !model.Priority(req.Priority).Valid() {
		writeError(w, http.StatusBadRequest, "invalid priority")
		return
	}

	task, err := h.tasks.Create(service.CreateTaskParams{
		Title:    req.Title,
		Notes:    req.Notes,
		Priority: model.Priority(req.Priority),
		DueDate:  req.DueDate,
		Project:  req.Project,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.broadcast(EventTaskCreated, task)
	writeJSON(w, http.StatusCreated, task)
}

// HandleGetTask returns a single task by id.
func (h *Handlers) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.tasks.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// HandleUpdateTask applies a partial update to a task.
func (h *Handlers) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := service.UpdateTaskParams{
		Title:   req.Title,
		Notes:   req.Notes,
		DueDate: req.DueDate,
		Project: req.Project,
	}
	if req.Status != nil {
		status := model.Status(*req.Status)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		params.Status = &status
	}
	if req.Priority != nil {
		priority := model.Priority(*req.Priority)
		if !priority.Valid() {
			writeError(w, http.StatusBadRequest, "invalid priority")
			return
		}
		params.Priority = &priority
	}

	task, err := h.tasks.Update(r.PathValue("id"), params)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.broadcast(EventTaskUpdated, task)
	writeJSON(w, http.StatusOK, task)
}

// HandleDeleteTask removes a task by id.
func (h *Handlers) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted, err := h.tasks.Delete(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	h.broadcast(EventTaskDeleted, map[string]string{"id": id})
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetTaskStatus updates only the status of a task. The new status is
// passed as a query parameter.
func (h *Handlers) HandleSetTaskStatus(w http.ResponseWriter, r *http.Request) {
	status := model.Status(r.URL.Query().Get("status"))
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status, must be one of: pending, in_progress, completed")
		return
	}

	task, err := h.tasks.SetStatus(r.PathValue("id"), status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.broadcast(EventTaskUpdated, task)
	writeJSON(w, http.StatusOK, task)
}

// HandleListProjects returns all projects.
func (h *Handlers) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.projects.List())
}

// HandleCreateProject creates a project from the request body.
func (h *Handlers) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.projects.Create(req.Name)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.broadcast(EventProjectCreated, project)
	writeJSON(w, http.StatusCreated, project)
}

// HandleGetProject returns a single project by name.
func (h *Handlers) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.projects.Get(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// HandleDeleteProject removes a project by name. Tasks referencing it keep
// their (now dangling) project field.
func (h *Handlers) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	deleted, err := h.projects.Delete(name)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	h.broadcast(EventProjectDeleted, map[string]string{"name": name})
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetSettings returns the current settings.
func (h *Handlers) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Get())
}

// HandleUpdateSettings replaces the settings wholesale.
func (h *Handlers) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req model.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.settings.Update(req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.broadcast(EventSettingsUpdated, settings)
	writeJSON(w, http.StatusOK, settings)
}

// HandlePatchSettings updates only the provided settings fields.
func (h *Handlers) HandlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var req patchSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var params service.PatchSettingsParams
	if req.Theme != nil {
		theme := model.Theme(*req.Theme)
		params.Theme = &theme
	}
	if req.SortOrder != nil {
		order := model.SortOrder(*req.SortOrder)
		params.SortOrder = &order
	}

	settings, err := h.settings.Patch(params)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.broadcast(EventSettingsUpdated, settings)
	writeJSON(w, http.StatusOK, settings)
}

// HandleCreateBackup copies every data document into the backup directory.
func (h *Handlers) HandleCreateBackup(w http.ResponseWriter, r *http.Request) {
	backups, err := service.BackupAll(h.cfg.Storage.DataDir, h.cfg.Storage.BackupDir)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, backupResponse{Backups: backups})
}

// HandleWebSocket upgrades the connection and registers a change-feed
// client. The first message is a full snapshot of the current state.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := newUpgrader(h.cfg.Server).Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(h.hub, conn)

	snapshot := ChangeEvent{
		Type:      "snapshot",
		Timestamp: time.Now().UTC(),
		Data: map[string]any{
			"tasks":    h.tasks.List(service.TaskFilter{}),
			"projects": h.projects.List(),
			"settings": h.settings.Get(),
		},
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		h.logger.Error("failed to marshal initial snapshot", "error", err)
		return
	}

	select {
	case client.send <- data:
	default:
		h.logger.Warn("failed to send initial snapshot to client")
	}
}

func (h *Handlers) broadcast(eventType string, data any) {
	h.hub.Broadcast(ChangeEvent{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
}

// writeServiceError maps service/storage failures to HTTP responses:
// duplicate → 409, not found → 404, lock contention → 503, I/O failure →
// 500, anything else → 400 (validation).
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrDuplicateID):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrLockHeld):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, storage.ErrUnavailable):
		h.logger.Error("storage failure", "error", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
