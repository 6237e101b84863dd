package config

import (
	"os"
	"path/filepath"
)

// AppName names the application's config and data directories.
const AppName = "schedule-ocr"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigDir is searched for schedule-ocr.yaml.
func DefaultConfigDir() string {
	return filepath.Join(XDGConfigHome(), AppName)
}

// DefaultDBPath returns the default path of the local calendar database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), AppName, "calendar.db")
}

// DefaultICSDir returns the directory exported .ics files are written to.
func DefaultICSDir() string {
	return filepath.Join(XDGDataHome(), AppName, "exports")
}
