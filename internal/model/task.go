// Package model defines the task manager's domain records — tasks, projects,
// and settings — along with their enums and the legacy-field normalization
// applied when reading historical documents.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is a task's lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"

	// statusLegacyActive is the pre-rename value still present in old
	// documents; NormalizeStatus maps it to StatusPending on read.
	statusLegacyActive = "active"
)

// Valid reports whether s is one of the current status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority is a task's importance level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a single to-do item. Project is a soft reference to a Project by
// name — never validated by storage, dangling references are permitted.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes"`
	Status    Status     `json:"status"`
	Priority  Priority   `json:"priority"`
	DueDate   *time.Time `json:"due_date"`
	Project   string     `json:"project"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewTask creates a task with a generated id and field defaults.
func NewTask(title string) Task {
	now := time.Now().UTC()
	return Task{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    StatusPending,
		Priority:  PriorityMedium,
		Project:   "Inbox",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Key returns the task's unique identifier.
func (t Task) Key() string { return t.ID }

// Validate checks required fields and enum values.
func (t Task) Validate() error {
	if t.ID == "" {
		return errors.New("task: id is required")
	}
	if t.Title == "" {
		return errors.New("task: title is required")
	}
	if !t.Status.Valid() {
		return fmt.Errorf("task: invalid status %q", t.Status)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("task: invalid priority %q", t.Priority)
	}
	return nil
}

// Touch refreshes the updated_at timestamp. Call before every mutating save.
func (t *Task) Touch() {
	t.UpdatedAt = time.Now().UTC()
}
