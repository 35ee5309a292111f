package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures the provisioning configuration for a host.
type Config struct {
	Version    int                   `yaml:"version"`
	ToolsDir   string                `yaml:"tools_dir,omitempty"`
	AssumeYes  bool                  `yaml:"assume_yes"`
	Shell      ShellConfig           `yaml:"shell"`
	Engagement EngagementConfig      `yaml:"engagement"`
	Tools      map[string]ToolConfig `yaml:"tools,omitempty"`
}

// ShellConfig selects the multiplexer default shell and its fallback.
type ShellConfig struct {
	Preferred string `yaml:"preferred"`
	Fallback  string `yaml:"fallback"`
}

// EngagementConfig controls engagement directory layout.
type EngagementConfig struct {
	Root    string   `yaml:"root"`
	Subdirs []string `yaml:"subdirs"`
}

// ToolConfig overrides managed-tool behaviour. A pinned version switches the
// installer to the static version-resolution strategy.
type ToolConfig struct {
	Version string `yaml:"version,omitempty"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version:   1,
		AssumeYes: false,
		Shell: ShellConfig{
			Preferred: "zsh",
			Fallback:  "/bin/bash",
		},
		Engagement: EngagementConfig{
			Root:    "/root",
			Subdirs: []string{"nmap", "hosts", "nxc", "loot", "web"},
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Marshal serializes the configuration for writing back to disk.
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// PinnedVersion returns the configured version pin for a tool, if any.
func (c Config) PinnedVersion(tool string) string {
	if c.Tools == nil {
		return ""
	}
	return strings.TrimSpace(c.Tools[tool].Version)
}

func (c *Config) applyDefaults() {
	def := Default()
	if strings.TrimSpace(c.Shell.Preferred) == "" {
		c.Shell.Preferred = def.Shell.Preferred
	}
	if strings.TrimSpace(c.Shell.Fallback) == "" {
		c.Shell.Fallback = def.Shell.Fallback
	}
	if strings.TrimSpace(c.Engagement.Root) == "" {
		c.Engagement.Root = def.Engagement.Root
	}
	if len(c.Engagement.Subdirs) == 0 {
		c.Engagement.Subdirs = def.Engagement.Subdirs
	}
}
