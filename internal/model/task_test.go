package model

import (
	"testing"
	"time"
)

func TestNewTaskDefaults(t *testing.T) {
	t.Parallel()

	task := NewTask("write the report")

	if task.ID == "" {
		t.Error("id not generated")
	}
	if task.Status != StatusPending {
		t.Errorf("status = %q, want pending", task.Status)
	}
	if task.Priority != PriorityMedium {
		t.Errorf("priority = %q, want medium", task.Priority)
	}
	if task.Project != "Inbox" {
		t.Errorf("project = %q, want Inbox", task.Project)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
	if task.DueDate != nil {
		t.Error("due date should default to nil")
	}
}

func TestNewTaskUniqueIDs(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTask("t").ID
		if seen[id] {
			t.Fatalf("duplicate generated id %q", id)
		}
		seen[id] = true
	}
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	valid := NewTask("ok")

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr bool
	}{
		{"valid", func(*Task) {}, false},
		{"missing id", func(task *Task) { task.ID = "" }, true},
		{"missing title", func(task *Task) { task.Title = "" }, true},
		{"bad status", func(task *Task) { task.Status = "done" }, true},
		{"legacy status rejected untranslated", func(task *Task) { task.Status = "active" }, true},
		{"bad priority", func(task *Task) { task.Priority = "urgent" }, true},
		{"in_progress ok", func(task *Task) { task.Status = StatusInProgress }, false},
		{"completed ok", func(task *Task) { task.Status = StatusCompleted }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			task := valid
			tt.mutate(&task)
			err := task.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskTouch(t *testing.T) {
	t.Parallel()

	task := NewTask("t")
	task.UpdatedAt = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	task.Touch()
	if task.UpdatedAt.Year() == 2020 {
		t.Error("Touch did not refresh updated_at")
	}
}

func TestProjectValidate(t *testing.T) {
	t.Parallel()

	p := NewProject("Work")
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if p.Key() != "Work" {
		t.Errorf("Key() = %q, want name", p.Key())
	}

	p.Name = ""
	if err := p.Validate(); err == nil {
		t.Error("Validate() accepted empty name")
	}
}
