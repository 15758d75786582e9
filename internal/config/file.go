package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the CLI-relevant Config fields with pointer fields so
// we can distinguish "not set" from zero values when merging TOML.
type fileConfig struct {
	OutputDir        *string `toml:"output_dir"`
	HistoryDB        *string `toml:"history_db"`
	WatchDir         *string `toml:"watch_dir"`
	HeadingPattern   *string `toml:"heading_pattern"`
	StripNoise       *bool   `toml:"strip_noise"`
	UseLayoutSignals *bool   `toml:"layout_signals"`
	Frontmatter      *bool   `toml:"frontmatter"`
	WebhookURL       *string `toml:"webhook_url"`
}

// ConfigDir returns the mdweave config directory, respecting XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mdweave")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mdweave")
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadFile reads config.toml and merges non-nil fields into cfg.
// Returns true if the file existed, false otherwise.
func LoadFile(cfg *Config) (bool, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return true, err
	}

	if fc.OutputDir != nil {
		cfg.OutputDir = ExpandHome(*fc.OutputDir)
	}
	if fc.HistoryDB != nil {
		cfg.HistoryDB = ExpandHome(*fc.HistoryDB)
	}
	if fc.WatchDir != nil {
		cfg.WatchDir = ExpandHome(*fc.WatchDir)
	}
	if fc.HeadingPattern != nil {
		cfg.HeadingPattern = *fc.HeadingPattern
	}
	if fc.StripNoise != nil {
		cfg.StripNoise = *fc.StripNoise
	}
	if fc.UseLayoutSignals != nil {
		cfg.UseLayoutSignals = *fc.UseLayoutSignals
	}
	if fc.Frontmatter != nil {
		cfg.Frontmatter = *fc.Frontmatter
	}
	if fc.WebhookURL != nil {
		cfg.WebhookURL = *fc.WebhookURL
	}

	return true, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, _ := os.UserHomeDir()
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
