// Package config loads booknerd configuration from .booknerd/config.yaml
// with environment-variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all booknerd configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM configuration (generative-text collaborator)
	LLM LLMConfig `yaml:"llm"`

	// Library store configuration
	Library LibraryConfig `yaml:"library"`

	// Discovery dialogue configuration
	Discovery DiscoveryConfig `yaml:"discovery"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the generative-text collaborator.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini, openai
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// LibraryConfig configures the SQLite library store.
type LibraryConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// DiscoveryConfig configures the discovery dialogue engine.
type DiscoveryConfig struct {
	MaxRecommendations int `yaml:"max_recommendations"` // hard cap 3, see discovery
	MaxRecentTitles    int `yaml:"max_recent_titles"`
	HistoryWindow      int `yaml:"history_window"`
}

// LoggingConfig configures categorized debug logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Name:    "booknerd",
		Version: "1.0.0",
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			Timeout:  "60s",
		},
		Library: LibraryConfig{
			DatabasePath: filepath.Join(".booknerd", "library.db"),
		},
		Discovery: DiscoveryConfig{
			MaxRecommendations: 3,
			MaxRecentTitles:    3,
			HistoryWindow:      5,
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load reads config from workspace/.booknerd/config.yaml, applying defaults
// for missing fields and environment overrides last. A missing file is not an
// error; the defaults are returned.
func Load(workspace string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(workspace, ".booknerd", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the file for secrets and
// provider selection.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BOOKNERD_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("BOOKNERD_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("BOOKNERD_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("BOOKNERD_DB_PATH"); v != "" {
		c.Library.DatabasePath = v
	}
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "openai", "":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.Discovery.MaxRecommendations < 1 || c.Discovery.MaxRecommendations > 3 {
		c.Discovery.MaxRecommendations = 3
	}
	if c.Discovery.MaxRecentTitles < 1 {
		c.Discovery.MaxRecentTitles = 3
	}
	if c.Discovery.HistoryWindow < 1 {
		c.Discovery.HistoryWindow = 5
	}
	if _, err := c.LLMTimeout(); err != nil {
		return err
	}
	return nil
}

// LLMTimeout parses the configured LLM timeout.
func (c *Config) LLMTimeout() (time.Duration, error) {
	if c.LLM.Timeout == "" {
		return 60 * time.Second, nil
	}
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid llm timeout %q: %w", c.LLM.Timeout, err)
	}
	return d, nil
}

// Save writes the config back to workspace/.booknerd/config.yaml.
func (c *Config) Save(workspace string) error {
	dir := filepath.Join(workspace, ".booknerd")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0644)
}
