package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/SlabTile/internal/model"
)

// DefaultProfilesPath returns ~/.slabtile/profiles.json.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveCustomProfiles writes the user's GCode profiles.
func SaveCustomProfiles(path string, profiles []model.GCodeProfile) error {
	return writeJSON(path, profiles)
}

// LoadCustomProfiles reads the user's GCode profiles. A missing file yields
// an empty list; every profile must be named.
func LoadCustomProfiles(path string) ([]model.GCodeProfile, error) {
	profiles := []model.GCodeProfile{}
	if _, err := readJSON(path, &profiles); err != nil {
		return nil, err
	}
	for i, p := range profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("profile %d in %s has no name", i+1, filepath.Base(path))
		}
	}
	return profiles, nil
}

// ImportProfile reads a single shared profile.
func ImportProfile(path string) (model.GCodeProfile, error) {
	var profile model.GCodeProfile
	found, err := readJSON(path, &profile)
	switch {
	case err != nil:
		return model.GCodeProfile{}, err
	case !found:
		return model.GCodeProfile{}, fmt.Errorf("profile file %s: %w", path, os.ErrNotExist)
	case profile.Name == "":
		return model.GCodeProfile{}, fmt.Errorf("imported profile has no name")
	}
	return profile, nil
}

// ExportProfile writes a single profile for sharing.
func ExportProfile(path string, profile model.GCodeProfile) error {
	return writeJSON(path, profile)
}
