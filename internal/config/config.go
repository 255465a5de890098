// Package config persists the hotkey settings map. The hotkey manager itself
// never touches the file; it accepts the loaded map on construction and hands
// back the same shape for saving.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/deskshell/hotkeys/internal/hotkey"
)

// Config holds the persisted application settings.
type Config struct {
	UseNotifications bool                      `json:"use_notifications"`
	Hotkeys          map[string]hotkey.Setting `json:"hotkeys"`

	configPath string
}

// GetConfigPath returns the path this config was loaded from.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Load reads and parses the configuration file. A missing file is replaced
// with a freshly written default before reading.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Config file %q not found. Creating default.", configPath)
			if createErr := CreateDefaultConfig(configPath); createErr != nil {
				return nil, fmt.Errorf("config file not found and failed to create default %q: %w", configPath, createErr)
			}
			data, err = os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file %q after creating default: %w", configPath, err)
			}
		} else {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", configPath, err)
	}
	config.configPath = configPath

	// Settings for hotkeys added after the file was written fall back to
	// their defaults.
	if config.Hotkeys == nil {
		config.Hotkeys = make(map[string]hotkey.Setting)
	}
	for id, setting := range hotkey.DefaultSettings() {
		if _, ok := config.Hotkeys[id]; !ok {
			config.Hotkeys[id] = setting
		}
	}

	return &config, nil
}

// Save writes the current configuration back to its file.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.configPath, data, 0600)
}

// CreateDefaultConfig writes a default configuration file unless one exists.
func CreateDefaultConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking config path %q: %w", configPath, err)
	}

	defaultConfig := &Config{
		UseNotifications: true,
		Hotkeys:          hotkey.DefaultSettings(),
	}
	data, err := json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write default config file %q: %w", configPath, err)
	}

	log.Printf("Default configuration file created at %s", configPath)
	return nil
}
