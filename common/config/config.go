// Package config loads the passmgr defaults from
// ~/.passmgr/config.yaml.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults used when the config file doesn't set a value.
const (
	DefaultStore  = "data.json"
	DefaultListen = "127.0.0.1:8080"
)

// Config holds the user's defaults.
type Config struct {
	// Store is the path to the credential store.
	Store string `yaml:"store"`

	// Email pre-fills the email/username field.
	Email string `yaml:"email"`

	// Listen is the address passmgr-server listens on.
	Listen string `yaml:"listen"`
}

// DefaultPath returns the default config file path:
// ~/.passmgr/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".passmgr", "config.yaml")
}

// Load reads a YAML config file from path. If the file does not
// exist, it returns an empty Config and no error. An empty path is
// treated the same way.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StorePath returns the store path, or DefaultStore.
func (c *Config) StorePath() string {
	if c.Store == "" {
		return DefaultStore
	}
	return expandHome(c.Store)
}

// ListenAddr returns the server address, or DefaultListen.
func (c *Config) ListenAddr() string {
	if c.Listen == "" {
		return DefaultListen
	}
	return c.Listen
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
