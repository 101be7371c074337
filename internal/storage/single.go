package storage

import (
	"encoding/json"
	"log/slog"
)

type validator interface {
	Validate() error
}

// Single is a store for a document holding exactly one entity under a
// "value" key (e.g. settings.json). It never reports "not found": Get always
// yields a usable value, falling back to the default constructor when the
// stored value is null, missing, or unparseable.
type Single[T any] struct {
	path   string
	def    func() T
	logger *slog.Logger
}

// NewSingle opens a single-value document, creating it with a null value if
// absent. def constructs the fallback returned when nothing usable is stored.
func NewSingle[T any](path string, def func() T, logger *slog.Logger) (*Single[T], error) {
	s := &Single[T]{
		path:   path,
		def:    def,
		logger: logger.With("component", "storage", "path", path),
	}
	if err := EnsureExists(path, map[string]any{"value": nil}); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the document's file path.
func (s *Single[T]) Path() string {
	return s.path
}

// Get returns the stored value, or the default when the document is empty,
// corrupted, or holds a value that fails validation.
func (s *Single[T]) Get() T {
	doc := ReadJSON(s.path, map[string]json.RawMessage{})
	raw, ok := doc["value"]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return s.def()
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Warn("stored value unreadable, using default", "error", err)
		return s.def()
	}
	if val, ok := any(v).(validator); ok {
		if err := val.Validate(); err != nil {
			s.logger.Warn("stored value invalid, using default", "error", err)
			return s.def()
		}
	}
	return v
}

// Set atomically replaces the stored value. There are no partial-field
// semantics at this layer; callers supply the complete replacement.
func (s *Single[T]) Set(v T) error {
	return WriteJSON(s.path, map[string]any{"value": v})
}
