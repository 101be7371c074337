package api

import "time"

// Change event types sent over the WebSocket feed.
const (
	EventTaskCreated     = "task.created"
	EventTaskUpdated     = "task.updated"
	EventTaskDeleted     = "task.deleted"
	EventProjectCreated  = "project.created"
	EventProjectDeleted  = "project.deleted"
	EventSettingsUpdated = "settings.updated"
	// EventStorageChanged signals a data file modified outside the API
	// (external edit); clients should re-fetch.
	EventStorageChanged = "storage.changed"
)

// ChangeEvent is the wrapper for all events sent to connected clients.
type ChangeEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}
