package config

import (
	"os"
	"path/filepath"
)

// appDir is the directory under ~/.config holding punchclock's files.
const appDir = "punchclock"

// defaultDBPath returns the default database file path.
//
// Returns: ~/.config/punchclock/punchclock.db.
func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./punchclock.db"
	}

	return filepath.Join(homeDir, ".config", appDir, "punchclock.db")
}

// DefaultConfigPath returns the default configuration file path.
//
// Returns: ~/.config/punchclock/config.yaml.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}

	return filepath.Join(homeDir, ".config", appDir, "config.yaml")
}
