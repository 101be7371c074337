// Package service implements the business operations on top of the storage
// layer: filtered task listings, partial updates, project lifecycle, and
// settings management. Each service owns one store; storage errors pass
// through unchanged so the API layer can map them to responses.
package service

import (
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"taskdesk/internal/model"
	"taskdesk/internal/storage"
)

// TasksFile is the collection document holding all tasks.
const TasksFile = "tasks.json"

// TaskService manages the task collection.
type TaskService struct {
	store  *storage.Collection[model.Task]
	logger *slog.Logger
}

// NewTaskService opens the task store under dataDir.
func NewTaskService(dataDir string, logger *slog.Logger) (*TaskService, error) {
	store, err := storage.NewCollection[model.Task](
		filepath.Join(dataDir, TasksFile),
		"tasks",
		"id",
		model.NormalizeStatus,
		logger,
	)
	if err != nil {
		return nil, err
	}
	return &TaskService{store: store, logger: logger.With("component", "tasks")}, nil
}

// TaskFilter selects tasks by exact field match. Empty fields match all.
type TaskFilter struct {
	Status   string
	Priority string
	Project  string
}

// List returns all tasks matching the filter.
func (s *TaskService) List(f TaskFilter) []model.Task {
	tasks := s.store.GetAll()
	out := tasks[:0:0]
	for _, t := range tasks {
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		if f.Priority != "" && string(t.Priority) != f.Priority {
			continue
		}
		if f.Project != "" && t.Project != f.Project {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Get returns the task with the given id.
func (s *TaskService) Get(id string) (model.Task, bool) {
	return s.store.GetByID(id)
}

// CreateTaskParams carries the caller-supplied fields for a new task.
// Zero-valued Priority and Project fall back to their defaults.
type CreateTaskParams struct {
	Title    string
	Notes    string
	Priority model.Priority
	DueDate  *time.Time
	Project  string
}

// Create builds a task from params (generated id, pending status, fresh
// timestamps) and adds it to the store.
func (s *TaskService) Create(p CreateTaskParams) (model.Task, error) {
	if p.Title == "" {
		return model.Task{}, errors.New("task: title is required")
	}

	t := model.NewTask(p.Title)
	t.Notes = p.Notes
	t.DueDate = p.DueDate
	if p.Priority != "" {
		if !p.Priority.Valid() {
			return model.Task{}, errors.New("task: invalid priority")
		}
		t.Priority = p.Priority
	}
	if p.Project != "" {
		t.Project = p.Project
	}

	if err := s.store.Add(t); err != nil {
		return model.Task{}, err
	}
	s.logger.Info("task created", "id", t.ID, "title", t.Title)
	return t, nil
}

// UpdateTaskParams carries a partial update; nil fields are left unchanged.
type UpdateTaskParams struct {
	Title    *string
	Notes    *string
	Status   *model.Status
	Priority *model.Priority
	DueDate  *time.Time
	Project  *string
}

// Update merges the set fields of p into the stored task, refreshes
// updated_at, and writes it back. Returns storage.ErrNotFound when no task
// matches id.
func (s *TaskService) Update(id string, p UpdateTaskParams) (model.Task, error) {
	t, ok := s.store.GetByID(id)
	if !ok {
		return model.Task{}, storage.ErrNotFound
	}

	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.Project != nil {
		t.Project = *p.Project
	}
	t.Touch()

	if err := s.store.Update(t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// SetStatus changes only the task's status.
func (s *TaskService) SetStatus(id string, status model.Status) (model.Task, error) {
	if !status.Valid() {
		return model.Task{}, errors.New("task: invalid status")
	}
	return s.Update(id, UpdateTaskParams{Status: &status})
}

// Delete removes the task and reports whether it existed.
func (s *TaskService) Delete(id string) (bool, error) {
	return s.store.Delete(id)
}

// Count returns the number of stored tasks.
func (s *TaskService) Count() int {
	return s.store.Count()
}
