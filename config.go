package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds tool settings that are not part of any mouse profile.
type Config struct {
	// Device overrides discovery with an explicit device path
	// (e.g. /dev/hidraw3).
	Device string `yaml:"device,omitempty"`

	// TimeoutMs is the per-frame response timeout in milliseconds.
	TimeoutMs int `yaml:"timeout_ms"`

	// Notifications enables desktop notifications on profile apply.
	Notifications bool `yaml:"notifications"`
}

// LoadConfig reads the YAML config file, falling back to defaults when the
// file does not exist.
func LoadConfig(filename string) (*Config, error) {
	config := &Config{
		TimeoutMs:     250,
		Notifications: true,
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.TimeoutMs <= 0 {
		return nil, fmt.Errorf("config: timeout_ms must be positive, got %d", config.TimeoutMs)
	}

	return config, nil
}
