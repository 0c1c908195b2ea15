package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName is the config file looked up when none is given.
const DefaultFileName = "config.yaml"

// SystemConfigDir holds the machine-wide config file.
var SystemConfigDir = "/etc/journal-exporter"

// ConfigDir returns the per-user config directory (~/.journal-exporter).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".journal-exporter"), nil
}

// DefaultPath returns the config file to use when none was given explicitly.
// The system directory is checked before the user directory. An absolute name
// is returned as-is. If no file exists, DefaultPath returns "".
func DefaultPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}

	candidates := []string{filepath.Join(SystemConfigDir, name)}
	if dir, err := ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
