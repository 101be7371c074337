package service

import (
	"log/slog"
	"path/filepath"

	"taskdesk/internal/model"
	"taskdesk/internal/storage"
)

// SettingsFile is the single-value document holding the settings singleton.
const SettingsFile = "settings.json"

// SettingsService manages the settings singleton.
type SettingsService struct {
	store  *storage.Single[model.Settings]
	logger *slog.Logger
}

// NewSettingsService opens the settings store under dataDir.
func NewSettingsService(dataDir string, logger *slog.Logger) (*SettingsService, error) {
	store, err := storage.NewSingle(
		filepath.Join(dataDir, SettingsFile),
		model.DefaultSettings,
		logger,
	)
	if err != nil {
		return nil, err
	}
	return &SettingsService{store: store, logger: logger.With("component", "settings")}, nil
}

// Get returns the current settings, falling back to defaults when nothing
// usable is stored.
func (s *SettingsService) Get() model.Settings {
	return s.store.Get()
}

// Update replaces the settings wholesale.
func (s *SettingsService) Update(v model.Settings) (model.Settings, error) {
	if err := v.Validate(); err != nil {
		return model.Settings{}, err
	}
	if err := s.store.Set(v); err != nil {
		return model.Settings{}, err
	}
	return v, nil
}

// PatchSettingsParams carries a partial settings update; nil fields keep
// their current value.
type PatchSettingsParams struct {
	Theme     *model.Theme
	SortOrder *model.SortOrder
}

// Patch merges the set fields of p over the current settings and stores the
// result as a complete replacement.
func (s *SettingsService) Patch(p PatchSettingsParams) (model.Settings, error) {
	v := s.Get()
	if p.Theme != nil {
		v.Theme = *p.Theme
	}
	if p.SortOrder != nil {
		v.SortOrder = *p.SortOrder
	}
	return s.Update(v)
}
