package service

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"taskdesk/internal/model"
	"taskdesk/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTaskService(t *testing.T) (*TaskService, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewTaskService(dir, discardLogger())
	if err != nil {
		t.Fatalf("NewTaskService: %v", err)
	}
	return s, dir
}

func TestTaskCreateDefaults(t *testing.T) {
	t.Parallel()
	s, _ := newTaskService(t)

	task, err := s.Create(CreateTaskParams{Title: "buy milk"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.ID == "" {
		t.Error("no id generated")
	}
	if task.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", task.Status)
	}
	if task.Priority != model.PriorityMedium {
		t.Errorf("priority = %q, want medium", task.Priority)
	}
	if task.Project != "Inbox" {
		t.Errorf("project = %q, want Inbox", task.Project)
	}

	got, ok := s.Get(task.ID)
	if !ok {
		t.Fatal("created task not found")
	}
	if got.Title != "buy milk" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestTaskCreateRejectsBadInput(t *testing.T) {
	t.Parallel()
	s, _ := newTaskService(t)

	if _, err := s.Create(CreateTaskParams{}); err == nil {
		t.Error("empty title accepted")
	}
	if _, err := s.Create(CreateTaskParams{Title: "t", Priority: "urgent"}); err == nil {
		t.Error("invalid priority accepted")
	}
	if s.Count() != 0 {
		t.Errorf("Count = %d after rejected creates", s.Count())
	}
}

func TestTaskListFilters(t *testing.T) {
	t.Parallel()
	s, _ := newTaskService(t)

	mustCreate := func(p CreateTaskParams) model.Task {
		t.Helper()
		task, err := s.Create(p)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		return task
	}

	a := mustCreate(CreateTaskParams{Title: "a", Priority: model.PriorityHigh, Project: "Work"})
	mustCreate(CreateTaskParams{Title: "b", Priority: model.PriorityLow, Project: "Work"})
	c := mustCreate(CreateTaskParams{Title: "c", Priority: model.PriorityHigh})
	if _, err := s.SetStatus(c.ID, model.StatusCompleted); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	tests := []struct {
		name   string
		filter TaskFilter
		want   int
	}{
		{"no filter", TaskFilter{}, 3},
		{"by project", TaskFilter{Project: "Work"}, 2},
		{"by priority", TaskFilter{Priority: "high"}, 2},
		{"by status", TaskFilter{Status: "completed"}, 1},
		{"combined", TaskFilter{Priority: "high", Project: "Work"}, 1},
		{"no match", TaskFilter{Project: "Home"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.List(tt.filter)
			if len(got) != tt.want {
				t.Errorf("List(%+v) returned %d tasks, want %d", tt.filter, len(got), tt.want)
			}
		})
	}

	combined := s.List(TaskFilter{Priority: "high", Project: "Work"})
	if len(combined) == 1 && combined[0].ID != a.ID {
		t.Errorf("combined filter matched %q, want %q", combined[0].ID, a.ID)
	}
}

func TestTaskUpdateMergesPartialFields(t *testing.T) {
	t.Parallel()
	s, _ := newTaskService(t)

	task, err := s.Create(CreateTaskParams{Title: "original", Notes: "keep me"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "renamed"
	prio := model.PriorityHigh
	got, err := s.Update(task.ID, UpdateTaskParams{Title: &title, Priority: &prio})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "renamed" || got.Priority != model.PriorityHigh {
		t.Errorf("updated fields not applied: %+v", got)
	}
	if got.Notes != "keep me" {
		t.Errorf("unset field changed: notes = %q", got.Notes)
	}
	if !got.UpdatedAt.After(task.UpdatedAt) && !got.UpdatedAt.Equal(task.UpdatedAt) {
		t.Error("updated_at went backwards")
	}
	if got.CreatedAt != task.CreatedAt {
		t.Error("created_at changed on update")
	}
}

func TestTaskUpdateMissing(t *testing.T) {
	t.Parallel()
	s, _ := newTaskService(t)

	title := "x"
	_, err := s.Update("no-such-id", UpdateTaskParams{Title: &title})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTaskSetStatus(t *testing.T) {
	t.Parallel()
	s, _ := newTaskService(t)

	task, err := s.Create(CreateTaskParams{Title: "t"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.SetStatus(task.ID, model.StatusInProgress)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if got.Status != model.StatusInProgress {
		t.Errorf("status = %q", got.Status)
	}

	if _, err := s.SetStatus(task.ID, "done"); err == nil {
		t.Error("invalid status accepted")
	}
	if _, err := s.SetStatus("missing", model.StatusPending); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTaskDelete(t *testing.T) {
	t.Parallel()
	s, _ := newTaskService(t)

	task, err := s.Create(CreateTaskParams{Title: "t"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	removed, err := s.Delete(task.ID)
	if err != nil || !removed {
		t.Fatalf("Delete = %v, %v; want true, nil", removed, err)
	}
	if _, ok := s.Get(task.ID); ok {
		t.Error("deleted task still readable")
	}

	removed, err = s.Delete(task.ID)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if removed {
		t.Error("second delete reported a removal")
	}
}

func TestTaskDueDateRoundTrip(t *testing.T) {
	t.Parallel()
	s, dir := newTaskService(t)

	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	task, err := s.Create(CreateTaskParams{Title: "t", DueDate: &due})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A fresh service over the same directory reads it back from disk.
	s2, err := NewTaskService(dir, discardLogger())
	if err != nil {
		t.Fatalf("NewTaskService: %v", err)
	}
	got, ok := s2.Get(task.ID)
	if !ok {
		t.Fatal("task not found in fresh service")
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due_date = %v, want %v", got.DueDate, due)
	}
}

func TestTaskLegacyStatusNormalizedOnRead(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	doc := `{"tasks": [{"id": "old-1", "title": "migrated", "status": "active", "priority": "low", "project": "Inbox", "created_at": "2024-01-01T00:00:00Z", "updated_at": "2024-01-01T00:00:00Z"}]}`
	if err := os.WriteFile(filepath.Join(dir, TasksFile), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewTaskService(dir, discardLogger())
	if err != nil {
		t.Fatalf("NewTaskService: %v", err)
	}
	got, ok := s.Get("old-1")
	if !ok {
		t.Fatal("legacy task not readable")
	}
	if got.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}

	if got := s.List(TaskFilter{Status: "pending"}); len(got) != 1 {
		t.Errorf("filter on normalized status matched %d tasks, want 1", len(got))
	}
}
