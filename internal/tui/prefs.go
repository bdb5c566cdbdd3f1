package tui

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/varalys/fic/internal/files"
)

// Prefs holds interactive-mode settings that persist across sessions.
type Prefs struct {
	// LastDirectory prefills the directory prompt.
	LastDirectory string `json:"last_directory"`
}

// prefsPath returns the path to the preferences file.
func prefsPath() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "fic", "tui_prefs.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fic", "tui_prefs.json"), nil
}

// LoadPrefs loads preferences from disk, returning the zero value if none
// are stored or the file is unreadable.
func LoadPrefs() Prefs {
	var prefs Prefs
	path, err := prefsPath()
	if err != nil {
		return prefs
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}
	_ = json.Unmarshal(data, &prefs) //nolint:errcheck // fall back to defaults
	return prefs
}

// SavePrefs persists preferences to disk.
func SavePrefs(prefs Prefs) error {
	path, err := prefsPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return files.WriteFileAtomic(path, data, 0600)
}
