package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type prefs struct {
	Theme string `json:"theme"`
}

func (p prefs) Validate() error {
	if p.Theme != "light" && p.Theme != "dark" {
		return errors.New("prefs: invalid theme")
	}
	return nil
}

func defaultPrefs() prefs { return prefs{Theme: "light"} }

func newTestSingle(t *testing.T, path string) *Single[prefs] {
	t.Helper()
	s, err := NewSingle(path, defaultPrefs, discardLogger())
	if err != nil {
		t.Fatalf("NewSingle: %v", err)
	}
	return s
}

func TestSingleDefaultOnFreshStore(t *testing.T) {
	t.Parallel()
	s := newTestSingle(t, filepath.Join(t.TempDir(), "prefs.json"))

	if got := s.Get(); got.Theme != "light" {
		t.Errorf("Get on fresh store = %+v, want default", got)
	}
}

func TestSingleSetGet(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "prefs.json")
	s := newTestSingle(t, path)

	if err := s.Set(prefs{Theme: "dark"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := s.Get(); got.Theme != "dark" {
		t.Errorf("Get = %+v, want dark", got)
	}

	// A fresh instance over the same path sees the stored value.
	s2 := newTestSingle(t, path)
	if got := s2.Get(); got.Theme != "dark" {
		t.Errorf("Get from fresh instance = %+v, want dark", got)
	}
}

func TestSingleFallsBackToDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"corrupted file", "not json at all"},
		{"null value", `{"value": null}`},
		{"missing value key", `{}`},
		{"wrong shape", `{"value": [1, 2, 3]}`},
		{"fails validation", `{"value": {"theme": "neon"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "prefs.json")
			s := newTestSingle(t, path)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if got := s.Get(); got.Theme != "light" {
				t.Errorf("Get = %+v, want default", got)
			}
		})
	}
}

func TestSingleSeesExternalEdits(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "prefs.json")
	s := newTestSingle(t, path)

	if err := os.WriteFile(path, []byte(`{"value": {"theme": "dark"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := s.Get(); got.Theme != "dark" {
		t.Errorf("Get after external edit = %+v, want dark", got)
	}
}
