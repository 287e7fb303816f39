package project

import (
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/SlabTile/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string               `json:"version"`
	CreatedAt string               `json:"created_at"`
	Config    model.AppConfig      `json:"config"`
	Templates *model.TemplateStore `json:"templates,omitempty"`
	Profiles  []model.GCodeProfile `json:"profiles,omitempty"`
}

// ExportAllData exports config, templates and custom GCode profiles to a
// single JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, templates model.TemplateStore, profiles []model.GCodeProfile) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Templates: &templates,
		Profiles:  profiles,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported data.
func ImportAllData(importPath string) (BackupData, error) {
	backup := BackupData{Config: model.DefaultAppConfig()}
	found, err := readJSON(importPath, &backup)
	switch {
	case err != nil:
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	case !found:
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", os.ErrNotExist)
	case backup.Version == "":
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentProjects == nil {
		backup.Config.RecentProjects = []string{}
	}
	return backup, nil
}
