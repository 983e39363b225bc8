package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/tigertag/internal/match"
	"github.com/llehouerou/tigertag/internal/rename"
	"github.com/llehouerou/tigertag/internal/retag"
)

type Config struct {
	Database         string `koanf:"database"`          // sqlite state db, empty means xdg data dir
	FilenameTemplate string `koanf:"filename_template"` // one of rename.Templates()

	Match     MatchConfig     `koanf:"match"`
	VirtualDJ VirtualDJConfig `koanf:"virtualdj"`
	Retag     RetagConfig     `koanf:"retag"`
	Log       LogConfig       `koanf:"log"`
}

// MatchConfig holds candidate resolution settings.
type MatchConfig struct {
	Limit           int `koanf:"limit"`            // max candidates shown (default: 10)
	Threshold       int `koanf:"threshold"`        // fuzzy score cutoff 0-100 (default: 60)
	ManualThreshold int `koanf:"manual_threshold"` // cutoff for typed titles (default: 30)
}

// VirtualDJConfig holds the external database settings.
type VirtualDJConfig struct {
	DatabasePath string `koanf:"database_path"` // path to database.xml
	Link         bool   `koanf:"link"`          // sync after every run
}

// RetagConfig holds folder run settings.
type RetagConfig struct {
	RetryDelayMS int `koanf:"retry_delay_ms"` // wait before retrying a locked file (default: 500)
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error"
	Format string `koanf:"format"` // "text" or "json"
}

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom loads the given files in order (last wins). Missing files are
// skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		FilenameTemplate: rename.DefaultTemplateName,
		Log:              LogConfig{Level: "info", Format: "text"},
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Database != "" {
		cfg.Database = expandPath(cfg.Database)
	}
	if cfg.VirtualDJ.DatabasePath != "" {
		cfg.VirtualDJ.DatabasePath = expandPath(cfg.VirtualDJ.DatabasePath)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/tigertag/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tigertag", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasVirtualDJ returns true if a VirtualDJ database is configured.
func (c *Config) HasVirtualDJ() bool {
	return c.VirtualDJ.DatabasePath != ""
}

// MatchResolver returns the resolver settings with defaults applied.
func (c *Config) MatchResolver() match.Resolver {
	m := c.Match

	if m.Limit <= 0 {
		m.Limit = match.DefaultLimit
	}
	if m.Threshold <= 0 || m.Threshold > 100 {
		m.Threshold = match.DefaultThreshold
	}
	if m.ManualThreshold <= 0 || m.ManualThreshold > 100 {
		m.ManualThreshold = match.DefaultManualThreshold
	}

	return match.Resolver{
		Limit:           m.Limit,
		Threshold:       m.Threshold,
		ManualThreshold: m.ManualThreshold,
	}
}

// Template returns the configured filename template.
func (c *Config) Template() (rename.Template, error) {
	return rename.ParseTemplateName(c.FilenameTemplate)
}

// RetryDelay returns the locked-file retry delay with the default applied.
func (c *Config) RetryDelay() time.Duration {
	if c.Retag.RetryDelayMS <= 0 {
		return retag.DefaultRetryDelay
	}
	return time.Duration(c.Retag.RetryDelayMS) * time.Millisecond
}
