// Package config loads viewer settings from an optional YAML file with
// environment overrides.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Profiles struct {
		Dir string `yaml:"dir"` // directory searched for profile inputs
	} `yaml:"profiles"`
	Output struct {
		Format string `yaml:"format"` // default export format
	} `yaml:"output"`
}

// Load reads the config file at path. A missing file is not an error; the
// zero config plus any environment overrides is returned instead.
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	var cfg Config
	file, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if dir := os.Getenv("PROFVIEW_PROFILE_DIR"); dir != "" {
		cfg.Profiles.Dir = dir
	}
	if format := os.Getenv("PROFVIEW_FORMAT"); format != "" {
		cfg.Output.Format = format
	}

	return &cfg, nil
}
