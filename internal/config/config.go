package config

import (
	"os"
	"path/filepath"
)

const (
	AppName = "ktpick"
	DbName  = "ktpick.db"
)

// DataDir returns the path to the ktpick data directory (~/.ktpick/).
// Creates the directory if it doesn't exist.
// Can be overridden with KTPICK_DATA_DIR environment variable (primarily for testing)
func DataDir() (string, error) {
	// Check for test override
	if dataDir := os.Getenv("KTPICK_DATA_DIR"); dataDir != "" {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return "", err
		}
		return dataDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dataDir := filepath.Join(home, "."+AppName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// OptionsPath returns the path to the options file (~/.ktpick/options.yaml)
func OptionsPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "options.yaml"), nil
}

// DatabasePath returns the path to the SQLite database (~/.ktpick/ktpick.db)
func DatabasePath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, DbName), nil
}
