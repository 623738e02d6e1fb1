// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultUserID identifies the local profile when none is configured.
const DefaultUserID = "local"

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Profile  ProfileConfig  `toml:"profile"`
	Stats    StatsConfig    `toml:"stats"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Lang       *string `toml:"lang,omitempty"`
	Difficulty *string `toml:"difficulty,omitempty"`
	AutoIndent *bool   `toml:"auto-indent,omitempty"`
	TabWidth   *int    `toml:"tab-width,omitempty"`
	LiveStats  *bool   `toml:"live-stats,omitempty"`
}

// CatalogConfig selects where snippets come from.
type CatalogConfig struct {
	Dir             *string `toml:"dir,omitempty"`
	MongoURI        *string `toml:"mongo-uri,omitempty"`
	MongoDatabase   *string `toml:"mongo-database,omitempty"`
	MongoCollection *string `toml:"mongo-collection,omitempty"`
}

// ProfileConfig identifies the local player.
type ProfileConfig struct {
	ID       *string `toml:"id,omitempty"`
	Username *string `toml:"username,omitempty"`
}

// StatsConfig maps stats defaults.
type StatsConfig struct {
	CurveWindow   *int `toml:"curve-window,omitempty"`
	RetentionDays *int `toml:"retention-days,omitempty"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg FileConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return f.Close()
}

// UserID returns the configured profile id or DefaultUserID.
func (c FileConfig) UserID() string {
	if c.Profile.ID != nil && *c.Profile.ID != "" {
		return *c.Profile.ID
	}
	return DefaultUserID
}

// Username returns the configured username, empty when unset.
func (c FileConfig) Username() string {
	if c.Profile.Username != nil {
		return *c.Profile.Username
	}
	return ""
}

// SnippetDir returns the user snippet directory.
func (c FileConfig) SnippetDir() string {
	if c.Catalog.Dir != nil && *c.Catalog.Dir != "" {
		return *c.Catalog.Dir
	}
	return DefaultSnippetDir()
}

// MongoURI returns the remote catalog URI, empty when unset.
func (c FileConfig) MongoURI() string {
	if v := os.Getenv("CODETYPE_MONGO_URI"); v != "" {
		return v
	}
	if c.Catalog.MongoURI != nil {
		return *c.Catalog.MongoURI
	}
	return ""
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// MongoDatabase returns the configured database name, empty when unset.
func (c FileConfig) MongoDatabase() string {
	return stringValue(c.Catalog.MongoDatabase)
}

// MongoCollection returns the configured collection name, empty when unset.
func (c FileConfig) MongoCollection() string {
	return stringValue(c.Catalog.MongoCollection)
}
