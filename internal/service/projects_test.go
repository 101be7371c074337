package service

import (
	"errors"
	"testing"

	"taskdesk/internal/model"
	"taskdesk/internal/storage"
)

func newProjectService(t *testing.T) (*ProjectService, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewProjectService(dir, discardLogger())
	if err != nil {
		t.Fatalf("NewProjectService: %v", err)
	}
	return s, dir
}

func TestProjectCreateAndList(t *testing.T) {
	t.Parallel()
	s, _ := newProjectService(t)

	p, err := s.Create("Work")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Name != "Work" || p.CreatedAt.IsZero() {
		t.Errorf("created project = %+v", p)
	}

	if _, err := s.Create("Home"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := s.List(); len(got) != 2 {
		t.Errorf("List returned %d projects, want 2", len(got))
	}
}

func TestProjectCreateDuplicate(t *testing.T) {
	t.Parallel()
	s, _ := newProjectService(t)

	if _, err := s.Create("Work"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := s.Create("Work")
	if !errors.Is(err, storage.ErrDuplicateID) {
		t.Errorf("err = %v, want ErrDuplicateID", err)
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
}

func TestProjectCreateEmptyName(t *testing.T) {
	t.Parallel()
	s, _ := newProjectService(t)

	if _, err := s.Create(""); err == nil {
		t.Error("empty name accepted")
	}
}

func TestProjectGetCaseSensitive(t *testing.T) {
	t.Parallel()
	s, _ := newProjectService(t)

	if _, err := s.Create("Work"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := s.Get("Work"); !ok {
		t.Error("exact-case lookup failed")
	}
	if _, ok := s.Get("work"); ok {
		t.Error("lookup matched different case")
	}
}

func TestProjectDelete(t *testing.T) {
	t.Parallel()
	s, _ := newProjectService(t)

	if _, err := s.Create("Work"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	removed, err := s.Delete("Work")
	if err != nil || !removed {
		t.Fatalf("Delete = %v, %v; want true, nil", removed, err)
	}
	if _, ok := s.Get("Work"); ok {
		t.Error("deleted project still readable")
	}

	removed, err = s.Delete("Work")
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if removed {
		t.Error("second delete reported a removal")
	}
}

func TestProjectDeleteLeavesTasksDangling(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	projects, err := NewProjectService(dir, discardLogger())
	if err != nil {
		t.Fatalf("NewProjectService: %v", err)
	}
	tasks, err := NewTaskService(dir, discardLogger())
	if err != nil {
		t.Fatalf("NewTaskService: %v", err)
	}

	if _, err := projects.Create("Work"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	task, err := tasks.Create(CreateTaskParams{Title: "t", Project: "Work"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := projects.Delete("Work"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The task keeps its now-dangling project reference.
	got, ok := tasks.Get(task.ID)
	if !ok {
		t.Fatal("task vanished with its project")
	}
	if got.Project != "Work" {
		t.Errorf("project = %q, want dangling \"Work\"", got.Project)
	}
	if got.Status != model.StatusPending {
		t.Errorf("status changed to %q", got.Status)
	}
}
