package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Sources []Source `yaml:"sources"`
	Dedup   Dedup    `yaml:"dedup"`
	Deep    Deep     `yaml:"deep"`
	Output  Output   `yaml:"output"`
	Cache   Cache    `yaml:"cache"`
	Server  Server   `yaml:"server"`
	Logging Logging  `yaml:"logging"`
}

// Source describes one place to pull headlines from. Type is one of
// "rss", "hackernews", "reddit", or "newsapi".
type Source struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	URL       string `yaml:"url,omitempty"`
	Subreddit string `yaml:"subreddit,omitempty"`
	Query     string `yaml:"query,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	Category  string `yaml:"category,omitempty"`
	Limit     int    `yaml:"limit,omitempty"`
}

type Dedup struct {
	Enabled        bool    `yaml:"enabled"`
	TitleThreshold float64 `yaml:"title_threshold"`
}

type Deep struct {
	Enabled        bool `yaml:"enabled"`
	MaxWorkers     int  `yaml:"max_workers"`
	TimeoutSeconds int  `yaml:"timeout_seconds"`
}

type Output struct {
	Format  string `yaml:"format"`
	Limit   int    `yaml:"limit"`
	DataDir string `yaml:"data_dir"`
}

type Cache struct {
	Enabled    bool   `yaml:"enabled"`
	TTLMinutes int    `yaml:"ttl_minutes"`
	Path       string `yaml:"path"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for newsdesk.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "newsdesk")
}

// DataDir returns the XDG data directory for newsdesk.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "newsdesk")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/newsdesk/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'newsdesk init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// LoadDefault parses the embedded default config.
func LoadDefault() (*Config, error) {
	return parse(DefaultConfigYAML)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Dedup: Dedup{
			Enabled:        true,
			TitleThreshold: 0.70,
		},
		Deep: Deep{
			MaxWorkers:     4,
			TimeoutSeconds: 10,
		},
		Output: Output{
			Format: "markdown",
			Limit:  50,
		},
		Cache: Cache{
			Enabled:    true,
			TTLMinutes: 60,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Dedup.TitleThreshold < 0 || c.Dedup.TitleThreshold > 1 {
		return fmt.Errorf("dedup.title_threshold must be between 0 and 1, got %v", c.Dedup.TitleThreshold)
	}
	for i, s := range c.Sources {
		switch s.Type {
		case "rss":
			if s.URL == "" {
				return fmt.Errorf("source %d (%s): rss source requires url", i, s.Name)
			}
		case "hackernews":
		case "reddit":
			if s.Subreddit == "" {
				return fmt.Errorf("source %d (%s): reddit source requires subreddit", i, s.Name)
			}
		case "newsapi":
			if s.Query == "" {
				return fmt.Errorf("source %d (%s): newsapi source requires query", i, s.Name)
			}
		default:
			return fmt.Errorf("source %d (%s): unknown type %q", i, s.Name, s.Type)
		}
	}
	return nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// CachePath returns the effective cache database path.
func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	return filepath.Join(c.GetDataDir(), "cache.db")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
