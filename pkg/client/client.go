// Package client is a Go client for the taskdesk HTTP API.
//
// It wraps a resty HTTP client with a request timeout and automatic retry
// on 5xx responses — lock contention surfaces as 503, and a retried
// read-modify-write is the documented way to handle it.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"taskdesk/internal/model"
)

// Client talks to a running taskdesk server.
type Client struct {
	http *resty.Client
}

// New creates a client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= 500
		}).
		SetHeader("Content-Type", "application/json")

	return &Client{http: httpClient}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}

// IsConflict reports whether err is a 409 from the server (duplicate
// identifier).
func IsConflict(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusConflict
}

type errorBody struct {
	Error string `json:"error"`
}

func apiError(resp *resty.Response) error {
	msg := resp.Status()
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		msg = body.Error
	}
	return &APIError{Status: resp.StatusCode(), Message: msg}
}

// Health reports the server's identity and status.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Health checks the server.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&errorBody{}).
		Get("/health")
	if err != nil {
		return Health{}, fmt.Errorf("health: %w", err)
	}
	if resp.IsError() {
		return Health{}, apiError(resp)
	}
	return out, nil
}

// TaskFilter selects tasks by exact field match; empty fields match all.
type TaskFilter struct {
	Status   string
	Priority string
	Project  string
}

// TaskList is the response to ListTasks.
type TaskList struct {
	Tasks []model.Task `json:"tasks"`
	Count int          `json:"count"`
}

// ListTasks returns tasks matching the filter.
func (c *Client) ListTasks(ctx context.Context, f TaskFilter) (TaskList, error) {
	req := c.http.R().SetContext(ctx).SetResult(&TaskList{}).SetError(&errorBody{})
	if f.Status != "" {
		req.SetQueryParam("status", f.Status)
	}
	if f.Priority != "" {
		req.SetQueryParam("priority", f.Priority)
	}
	if f.Project != "" {
		req.SetQueryParam("project", f.Project)
	}

	resp, err := req.Get("/api/v1/tasks")
	if err != nil {
		return TaskList{}, fmt.Errorf("list tasks: %w", err)
	}
	if resp.IsError() {
		return TaskList{}, apiError(resp)
	}
	return *resp.Result().(*TaskList), nil
}

// CreateTaskRequest carries the fields for a new task. Title is required.
type CreateTaskRequest struct {
	Title    string     `json:"title"`
	Notes    string     `json:"notes,omitempty"`
	Priority string     `json:"priority,omitempty"`
	DueDate  *time.Time `json:"due_date,omitempty"`
	Project  string     `json:"project,omitempty"`
}

// CreateTask creates a task and returns it with its generated id.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (model.Task, error) {
	var out model.Task
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&errorBody{}).
		Post("/api/v1/tasks")
	if err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	if resp.IsError() {
		return model.Task{}, apiError(resp)
	}
	return out, nil
}

// GetTask fetches a task by id.
func (c *Client) GetTask(ctx context.Context, id string) (model.Task, error) {
	var out model.Task
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&errorBody{}).
		Get("/api/v1/tasks/" + id)
	if err != nil {
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}
	if resp.IsError() {
		return model.Task{}, apiError(resp)
	}
	return out, nil
}

// UpdateTaskRequest is a partial update; nil fields are left unchanged.
type UpdateTaskRequest struct {
	Title    *string    `json:"title,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
	Status   *string    `json:"status,omitempty"`
	Priority *string    `json:"priority,omitempty"`
	DueDate  *time.Time `json:"due_date,omitempty"`
	Project  *string    `json:"project,omitempty"`
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (model.Task, error) {
	var out model.Task
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&errorBody{}).
		Put("/api/v1/tasks/" + id)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	if resp.IsError() {
		return model.Task{}, apiError(resp)
	}
	return out, nil
}

// SetTaskStatus changes only the task's status.
func (c *Client) SetTaskStatus(ctx context.Context, id, status string) (model.Task, error) {
	var out model.Task
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("status", status).
		SetResult(&out).
		SetError(&errorBody{}).
		Patch("/api/v1/tasks/" + id + "/status")
	if err != nil {
		return model.Task{}, fmt.Errorf("set task status: %w", err)
	}
	if resp.IsError() {
		return model.Task{}, apiError(resp)
	}
	return out, nil
}

// DeleteTask removes a task by id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&errorBody{}).
		Delete("/api/v1/tasks/" + id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// ListProjects returns all projects.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&errorBody{}).
		Get("/api/v1/projects")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out, nil
}

// CreateProject creates a project with the given name.
func (c *Client) CreateProject(ctx context.Context, name string) (model.Project, error) {
	var out model.Project
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"name": name}).
		SetResult(&out).
		SetError(&errorBody{}).
		Post("/api/v1/projects")
	if err != nil {
		return model.Project{}, fmt.Errorf("create project: %w", err)
	}
	if resp.IsError() {
		return model.Project{}, apiError(resp)
	}
	return out, nil
}

// DeleteProject removes a project by name.
func (c *Client) DeleteProject(ctx context.Context, name string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&errorBody{}).
		Delete("/api/v1/projects/" + name)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// GetSettings returns the current settings.
func (c *Client) GetSettings(ctx context.Context) (model.Settings, error) {
	var out model.Settings
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&errorBody{}).
		Get("/api/v1/settings")
	if err != nil {
		return model.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	if resp.IsError() {
		return model.Settings{}, apiError(resp)
	}
	return out, nil
}

// UpdateSettings replaces the settings wholesale.
func (c *Client) UpdateSettings(ctx context.Context, s model.Settings) (model.Settings, error) {
	var out model.Settings
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(s).
		SetResult(&out).
		SetError(&errorBody{}).
		Put("/api/v1/settings")
	if err != nil {
		return model.Settings{}, fmt.Errorf("update settings: %w", err)
	}
	if resp.IsError() {
		return model.Settings{}, apiError(resp)
	}
	return out, nil
}

// PatchSettingsRequest updates only the provided settings fields.
type PatchSettingsRequest struct {
	Theme     *string `json:"theme,omitempty"`
	SortOrder *string `json:"sort_order,omitempty"`
}

// PatchSettings updates only the provided settings fields.
func (c *Client) PatchSettings(ctx context.Context, req PatchSettingsRequest) (model.Settings, error) {
	var out model.Settings
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&errorBody{}).
		Patch("/api/v1/settings")
	if err != nil {
		return model.Settings{}, fmt.Errorf("patch settings: %w", err)
	}
	if resp.IsError() {
		return model.Settings{}, apiError(resp)
	}
	return out, nil
}

// CreateBackup asks the server to back up all data documents and returns
// the created backup paths.
func (c *Client) CreateBackup(ctx context.Context) ([]string, error) {
	var out struct {
		Backups []string `json:"backups"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&errorBody{}).
		Post("/api/v1/backups")
	if err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out.Backups, nil
}
