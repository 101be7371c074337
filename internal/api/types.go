package api

import (
	"time"

	"taskdesk/internal/model"
)

// taskListResponse is the payload for GET /api/v1/tasks.
type taskListResponse struct {
	Tasks []model.Task `json:"tasks"`
	Count int          `json:"count"`
}

// createTaskRequest is the body for POST /api/v1/tasks.
type createTaskRequest struct {
	Title    string     `json:"title"`
	Notes    string     `json:"notes"`
	Priority string     `json:"priority"`
	DueDate  *time.Time `json:"due_date"`
	Project  string     `json:"project"`
}

// updateTaskRequest is the body for PUT /api/v1/tasks/{id}. Absent fields
// are left unchanged.
type updateTaskRequest struct {
	Title    *string    `json:"title"`
	Notes    *string    `json:"notes"`
	Status   *string    `json:"status"`
	Priority *string    `json:"priority"`
	DueDate  *time.Time `json:"due_date"`
	Project  *string    `json:"project"`
}

// createProjectRequest is the body for POST /api/v1/projects.
type createProjectRequest struct {
	Name string `json:"name"`
}

// patchSettingsRequest is the body for PATCH /api/v1/settings. Absent
// fields keep their current value.
type patchSettingsRequest struct {
	Theme     *string `json:"theme"`
	SortOrder *string `json:"sort_order"`
}

// backupResponse is the payload for POST /api/v1/backups.
type backupResponse struct {
	Backups []string `json:"backups"`
}

// healthResponse is the payload for GET /health.
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}
