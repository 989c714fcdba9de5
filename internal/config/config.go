// Package config loads the trusted-system configuration: where the
// outline file lives and which contexts are currently in play.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ConfigDirName  = ".vtd"
	ConfigFileName = "config.yaml"
)

// Config mirrors ~/.vtd/config.yaml. Contexts prefixed with '-' are
// excluded; exclusion dominates inclusion.
type Config struct {
	File     string   `yaml:"file"`
	Contexts []string `yaml:"contexts,omitempty"`
}

// MissingFileError reports an absent config file; callers usually fall
// back to defaults.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	if e == nil || e.Path == "" {
		return "config file not found"
	}
	return fmt.Sprintf("config file not found: %s", e.Path)
}

// DefaultPath returns ~/.vtd/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDirName, ConfigFileName), nil
}

// Load reads and parses the config at path. An empty path means the
// default location.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingFileError{Path: path}
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.File = expandHome(cfg.File)
	return &cfg, nil
}

// IncludeExclude splits the configured contexts into include and exclude
// sets ("-home" excludes home).
func (c *Config) IncludeExclude() (include, exclude []string) {
	for _, ctx := range c.Contexts {
		ctx = strings.TrimSpace(ctx)
		if ctx == "" {
			continue
		}
		if strings.HasPrefix(ctx, "-") {
			exclude = append(exclude, ctx[1:])
		} else {
			include = append(include, ctx)
		}
	}
	return include, exclude
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
