package service

import (
	"errors"
	"log/slog"
	"path/filepath"

	"taskdesk/internal/model"
	"taskdesk/internal/storage"
)

// ProjectsFile is the collection document holding all projects.
const ProjectsFile = "projects.json"

// ProjectService manages the project collection. Deleting a project never
// touches tasks: their project field keeps pointing at the deleted name
// (soft references are permitted to dangle).
type ProjectService struct {
	store  *storage.Collection[model.Project]
	logger *slog.Logger
}

// NewProjectService opens the project store under dataDir.
func NewProjectService(dataDir string, logger *slog.Logger) (*ProjectService, error) {
	store, err := storage.NewCollection[model.Project](
		filepath.Join(dataDir, ProjectsFile),
		"projects",
		"name",
		nil,
		logger,
	)
	if err != nil {
		return nil, err
	}
	return &ProjectService{store: store, logger: logger.With("component", "projects")}, nil
}

// List returns all projects.
func (s *ProjectService) List() []model.Project {
	return s.store.GetAll()
}

// Get returns the project with the given name. Matching is case-sensitive.
func (s *ProjectService) Get(name string) (model.Project, bool) {
	return s.store.GetByID(name)
}

// Create adds a new project. Returns storage.ErrDuplicateID when a project
// with the same name already exists.
func (s *ProjectService) Create(name string) (model.Project, error) {
	if name == "" {
		return model.Project{}, errors.New("project: name is required")
	}

	p := model.NewProject(name)
	if err := s.store.Add(p); err != nil {
		return model.Project{}, err
	}
	s.logger.Info("project created", "name", name)
	return p, nil
}

// Delete removes the project and reports whether it existed.
func (s *ProjectService) Delete(name string) (bool, error) {
	n, err := s.store.DeleteByField("name", name)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the number of stored projects.
func (s *ProjectService) Count() int {
	return s.store.Count()
}
