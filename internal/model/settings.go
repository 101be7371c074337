package model

import "fmt"

// Theme selects the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// SortOrder selects how the UI orders task listings.
type SortOrder string

const (
	SortByPriority SortOrder = "priority"
	SortByDueDate  SortOrder = "due_date"
	SortByCreated  SortOrder = "created"
)

// Settings holds the user's UI preferences. Exactly one instance exists,
// persisted as a single-value document.
type Settings struct {
	Theme     Theme     `json:"theme"`
	SortOrder SortOrder `json:"sort_order"`
}

// DefaultSettings returns the declared defaults, used whenever nothing
// usable is stored.
func DefaultSettings() Settings {
	return Settings{
		Theme:     ThemeLight,
		SortOrder: SortByCreated,
	}
}

// Validate checks both enum fields.
func (s Settings) Validate() error {
	switch s.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("settings: invalid theme %q", s.Theme)
	}
	switch s.SortOrder {
	case SortByPriority, SortByDueDate, SortByCreated:
	default:
		return fmt.Errorf("settings: invalid sort_order %q", s.SortOrder)
	}
	return nil
}
