// Package cli implements the ecocycle field agent: a CLI that keeps vendor
// submissions flowing even when the server is unreachable, queuing them
// locally and replaying them once connectivity returns.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the agent configuration, read from ~/.ecocycle/agent.yaml by
// default. Every field can be overridden by a flag.
type Config struct {
	ServerURL     string        `yaml:"server_url"`
	Token         string        `yaml:"token"`
	UserID        string        `yaml:"user_id"`
	StorePath     string        `yaml:"store_path"`
	ProbeInterval time.Duration `yaml:"probe_interval"`
}

// DefaultConfigPath returns ~/.ecocycle/agent.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ecocycle", "agent.yaml"), nil
}

// LoadConfig reads the config file at path. A missing file is not an
// error: it yields a zero config that flags can fill in.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills gaps a config file or flags left open.
func (c *Config) applyDefaults() error {
	if c.ServerURL == "" {
		c.ServerURL = "http://localhost:8080"
	}
	if c.StorePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot resolve home directory: %w", err)
		}
		c.StorePath = filepath.Join(home, ".ecocycle", "pending.db")
	}
	if c.ProbeInterval <= 0 {
		c.ProbeInterval = 10 * time.Second
	}
	return nil
}

// validate rejects configs that cannot identify the submitting user.
func (c *Config) validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user_id is required (set it in the config file or pass --user)")
	}
	return nil
}
