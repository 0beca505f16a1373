// Package config loads assistant credentials and preferences from a yaml
// config file with environment-variable overrides. Every credential is
// independently optional: a missing generation key forces permanent fallback
// mode, missing search or marketplace keys silently disable those features.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variable names, matching the deployment surface.
const (
	EnvGeminiKey     = "GEMINI_API_KEY"
	EnvSerperKey     = "SERPER_KEY"
	EnvAliExpressKey = "ALIEXPRESS_KEY"
)

// Config holds API credentials and user preferences.
type Config struct {
	GeminiAPIKey     string `yaml:"gemini_api_key"`
	SerperAPIKey     string `yaml:"serper_api_key"`
	AliExpressAPIKey string `yaml:"aliexpress_api_key"`
	Theme            string `yaml:"theme"` // "light" or "dark"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Theme: "light"}
}

// Dir returns the directory where config is stored. A project-local
// .shopassist directory wins over the home-level one.
func Dir() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		localDir := filepath.Join(cwd, ".shopassist")
		if stat, err := os.Stat(localDir); err == nil && stat.IsDir() {
			return localDir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".shopassist"), nil
}

// File returns the full path to the config file.
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration from disk and applies environment overrides.
// A missing file is not an error; the defaults are returned.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := File()
	if err != nil {
		return applyEnv(cfg), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyEnv(cfg), nil
	}
	if err != nil {
		return applyEnv(cfg), err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return applyEnv(DefaultConfig()), fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return applyEnv(cfg), nil
}

// applyEnv lets environment variables override file values.
func applyEnv(cfg Config) Config {
	if v := os.Getenv(EnvGeminiKey); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv(EnvSerperKey); v != "" {
		cfg.SerperAPIKey = v
	}
	if v := os.Getenv(EnvAliExpressKey); v != "" {
		cfg.AliExpressAPIKey = v
	}
	return cfg
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := File()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Warnings reports missing credentials. Surfaced once at startup; none of
// these are fatal.
func (c Config) Warnings() []string {
	var warnings []string
	if c.GeminiAPIKey == "" {
		warnings = append(warnings, "GEMINI_API_KEY not found. Answers will use fallback mode.")
	}
	if c.SerperAPIKey == "" {
		warnings = append(warnings, "SERPER_KEY not found. Search functionality may be limited.")
	}
	if c.AliExpressAPIKey == "" {
		warnings = append(warnings, "ALIEXPRESS_KEY not found. Product search may be limited.")
	}
	return warnings
}
