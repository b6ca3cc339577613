package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const prefsFile = "prefs.json"

// Prefs is per-kiosk state remembered between runs.
type Prefs struct {
	LastFrame string `json:"last_frame,omitempty"`
}

// Store reads and writes Prefs at Path.
type Store struct {
	Path string
}

// DefaultStore keeps prefs under the user config directory.
func DefaultStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &Store{Path: filepath.Join(dir, "photobooth", prefsFile)}, nil
}

// Load returns the stored prefs, or zero prefs if none were saved yet.
func (s *Store) Load() (Prefs, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Prefs{}, nil
		}
		return Prefs{}, err
	}
	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return Prefs{}, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return p, nil
}

func (s *Store) Save(p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}
