// Package config loads the loredump YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kittclouds/loredump/pkg/view"
)

// FileName is the config file looked up in the home directory.
const FileName = "config.yaml"

// DirName is the per-user data directory under $HOME.
const DirName = ".loredump"

type Remote struct {
	// DSN is the SQLite data source of the published document.
	DSN string `yaml:"dsn"`
}

type Draft struct {
	// Dir holds the local draft file.
	Dir string `yaml:"dir"`
}

type View struct {
	Sort string `yaml:"sort"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Config is the file layout.
type Config struct {
	Remote Remote `yaml:"remote"`
	Draft  Draft  `yaml:"draft"`
	View   View   `yaml:"view"`
	Log    Log    `yaml:"log"`
}

// Default returns the configuration used when no file exists. Paths live
// under base, normally ~/.loredump.
func Default(base string) Config {
	return Config{
		Remote: Remote{DSN: filepath.Join(base, "lore.db")},
		Draft:  Draft{Dir: filepath.Join(base, "drafts")},
		View:   View{Sort: string(view.SortAscending)},
		Log:    Log{Level: "info"},
	}
}

// BaseDir returns ~/.loredump.
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// DefaultPath returns ~/.loredump/config.yaml.
func DefaultPath() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, FileName), nil
}

// Load reads path over the defaults rooted at the file's directory. A
// missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default(filepath.Dir(path))
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes cfg to path, creating the directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	header := "# loredump configuration\n\n"
	return os.WriteFile(path, []byte(header+string(data)), 0o644)
}

// Validate rejects values that cannot be used.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Remote.DSN) == "" {
		return errors.New("remote.dsn is required")
	}
	if strings.TrimSpace(c.Draft.Dir) == "" {
		return errors.New("draft.dir is required")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// SortMode returns the configured sort order.
func (c Config) SortMode() view.SortMode {
	return view.ParseSortMode(c.View.Sort)
}

// ParseLevel maps a level name onto slog. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}
