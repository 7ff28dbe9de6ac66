package config

import (
	"fmt"

	"github.com/location-sb/location-status/internal/models"
)

// LoadSettings loads the settings from ~/.location-status/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	return LoadSettingsFrom(path)
}

// LoadSettingsFrom loads and validates settings from an explicit path.
// Keys missing from the file keep their default values.
func LoadSettingsFrom(path string) (*models.Settings, error) {
	settings := models.NewSettings()
	if FileExists(path) {
		if err := LoadYAML(path, settings); err != nil {
			return nil, err
		}
	}

	for i, p := range settings.Icons.SearchPaths {
		settings.Icons.SearchPaths[i] = ExpandHome(p)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings saves the settings to ~/.location-status/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}
