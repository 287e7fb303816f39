// Package project persists projects, room specs, application config,
// layout templates and custom GCode profiles.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/piwi3910/SlabTile/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.slabtile/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".slabtile")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSON(path, config)
}

// LoadAppConfig reads an AppConfig from the given path. A missing file yields
// DefaultAppConfig; keys missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	if _, err := readJSON(path, &config); err != nil {
		return model.AppConfig{}, err
	}
	if config.RecentProjects == nil {
		config.RecentProjects = []string{}
	}
	return config, nil
}

// AddRecentProject moves path to the front of the recent list, keeping at most max entries.
func AddRecentProject(config *model.AppConfig, path string, max int) {
	recent := []string{path}
	for _, p := range config.RecentProjects {
		if p != path && len(recent) < max {
			recent = append(recent, p)
		}
	}
	config.RecentProjects = recent
}

// readJSON decodes the file at path into v. It reports false, with v
// untouched, when the file does not exist.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return true, nil
}

// writeJSON marshals v with indentation and writes it, creating parent directories.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
