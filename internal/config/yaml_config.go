package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the optional config.yaml file.
type YAMLConfig struct {
	Share ShareConfig `yaml:"share"`
}

// ShareConfig customizes how collections are shared.
type ShareConfig struct {
	// Platforms adds social platforms or overrides the built-in ones by name.
	Platforms []PlatformConfig `yaml:"platforms"`
	// Disabled lists built-in platform names to hide.
	Disabled []string `yaml:"disabled,omitempty"`
}

// PlatformConfig defines a social share intent.
// Template may reference {url} and {text}; both are query-escaped.
type PlatformConfig struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
}

// LoadYAMLConfig loads the YAML configuration file at path.
// Returns nil without error if the file doesn't exist.
func LoadYAMLConfig(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SharePlatforms returns the configured platform overrides, nil-safe.
func (c *YAMLConfig) SharePlatforms() []PlatformConfig {
	if c == nil {
		return nil
	}
	return c.Share.Platforms
}

// IsPlatformDisabled reports whether a built-in platform was switched off.
func (c *YAMLConfig) IsPlatformDisabled(name string) bool {
	if c == nil {
		return false
	}
	for _, d := range c.Share.Disabled {
		if d == name {
			return true
		}
	}
	return false
}
