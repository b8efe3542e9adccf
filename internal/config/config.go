// Package config loads kpm2keepass settings from an optional TOML file and
// the environment. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	EnvConfig              = "KPM2KEEPASS_CONFIG"
	EnvOutputDir           = "KPM2KEEPASS_OUTPUT_DIR"
	EnvTheme               = "KPM2KEEPASS_THEME"
	EnvShowSecrets         = "KPM2KEEPASS_SHOW_SECRETS"
	EnvSkipUpdateCheck     = "KPM2KEEPASS_SKIP_UPDATE_CHECK"
	EnvUpdateCheckInterval = "KPM2KEEPASS_UPDATE_CHECK_INTERVAL"

	defaultUpdateCheckInterval = 7
)

// Theme selects the color palette
type Theme string

const (
	ThemeAuto  Theme = ""
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Config holds the settings shared by all commands
type Config struct {
	OutputDir               string `toml:"output_dir"`
	Theme                   Theme  `toml:"theme"`
	ShowSecrets             bool   `toml:"show_secrets"`
	SkipUpdateCheck         bool   `toml:"skip_update_check"`
	UpdateCheckIntervalDays int    `toml:"update_check_interval_days"`

	// Path of the file the config was read from, empty when none was found
	Source string `toml:"-"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		OutputDir:               ".",
		UpdateCheckIntervalDays: defaultUpdateCheckInterval,
	}
}

// Load reads the config file at path, or the first one found in the default
// locations when path is empty, then applies environment overrides. A missing
// default file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if !explicit {
		path = findDefault()
	}

	if path != "" {
		path = os.ExpandEnv(path)
		if _, err := os.Stat(path); err != nil {
			if explicit {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
		} else {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
			cfg.Source = path
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findDefault() string {
	candidates := []string{"kpm2keepass.toml"}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "kpm2keepass", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvOutputDir); ok && v != "" {
		c.OutputDir = v
	}
	if v, ok := os.LookupEnv(EnvTheme); ok {
		c.Theme = Theme(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := os.LookupEnv(EnvShowSecrets); ok {
		c.ShowSecrets = IsTruthy(v)
	}
	if v, ok := os.LookupEnv(EnvSkipUpdateCheck); ok {
		c.SkipUpdateCheck = IsTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvUpdateCheckInterval)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive number of days, got %q", EnvUpdateCheckInterval, v)
		}
		c.UpdateCheckIntervalDays = n
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Theme {
	case ThemeAuto, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid theme %q: use \"light\" or \"dark\"", c.Theme)
	}
	if c.UpdateCheckIntervalDays <= 0 {
		c.UpdateCheckIntervalDays = defaultUpdateCheckInterval
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	return nil
}

// IsTruthy accepts 1, true, yes and on in any case
func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
