// Package storage persists named positions, engine settings and the search
// history in a badger database.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "cellchess"

// EnvDataDir names an environment variable that replaces the platform data directory.
const EnvDataDir = "CELLCHESS_DATA_DIR"

// platformBaseDir returns the per-user application data root:
// - macOS: ~/Library/Application Support
// - Linux: $XDG_DATA_HOME or ~/.local/share
// - Windows: %APPDATA% or ~/AppData/Roaming
func platformBaseDir() (string, error) {
	var env string
	var fallback []string

	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = os.Getenv("APPDATA"), []string{"AppData", "Roaming"}
	default:
		env, fallback = os.Getenv("XDG_DATA_HOME"), []string{".local", "share"}
	}
	if env != "" {
		return env, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{homeDir}, fallback...)...), nil
}

// ensureDir creates dir if needed and returns it.
func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetDataDir returns the application data directory, creating it if needed.
// CELLCHESS_DATA_DIR takes precedence over the platform location.
func GetDataDir() (string, error) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return ensureDir(dir)
	}
	base, err := platformBaseDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(base, appName))
}

// DatabaseDir returns the BadgerDB directory. A non-empty override is used
// as is; otherwise the database lives in "db" under GetDataDir.
func DatabaseDir(override string) (string, error) {
	if override != "" {
		return ensureDir(override)
	}
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(dataDir, "db"))
}
