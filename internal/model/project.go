package model

import (
	"errors"
	"time"
)

// Project groups tasks under a name. The name doubles as the project's
// identifier — there is no separate id field.
type Project struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProject creates a project with the creation timestamp set.
func NewProject(name string) Project {
	return Project{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Key returns the project's identifier (its name).
func (p Project) Key() string { return p.Name }

// Validate checks required fields.
func (p Project) Validate() error {
	if p.Name == "" {
		return errors.New("project: name is required")
	}
	return nil
}
