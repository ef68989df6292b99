package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ALT-F4-LLC/skis/internal/model"
)

const (
	// SettingsFileName is the optional settings file inside .skis.
	SettingsFileName = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. SKIS_LIST_LIMIT.
	EnvPrefix = "SKIS"
)

// Settings are the tunables read from .skis/config.yaml and SKIS_*
// environment variables. The engine itself only consumes BusyTimeout and
// RetryMaxElapsed.
type Settings struct {
	BusyTimeout     time.Duration `mapstructure:"busy_timeout"`
	RetryMaxElapsed time.Duration `mapstructure:"retry_max_elapsed"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFile         string        `mapstructure:"log_file"`
	List            ListSettings  `mapstructure:"list"`
}

// ListSettings are the defaults applied by `skis list` and `skis search`.
type ListSettings struct {
	Limit int    `mapstructure:"limit"`
	Sort  string `mapstructure:"sort"`
	Order string `mapstructure:"order"`
}

// DefaultSettings returns the settings used when nothing overrides them.
func DefaultSettings() Settings {
	return Settings{
		BusyTimeout:     5 * time.Second,
		RetryMaxElapsed: 2 * time.Second,
		LogLevel:        "warn",
		List: ListSettings{
			Limit: model.DefaultLimit,
			Sort:  string(model.SortUpdated),
			Order: string(model.SortDesc),
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault("busy_timeout", d.BusyTimeout)
	v.SetDefault("retry_max_elapsed", d.RetryMaxElapsed)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("list.limit", d.List.Limit)
	v.SetDefault("list.sort", d.List.Sort)
	v.SetDefault("list.order", d.List.Order)
}

// LoadSettings layers defaults, the settings file in dir (if any) and
// SKIS_* environment variables. An empty dir skips the file.
func LoadSettings(dir string) (Settings, error) {
	if dir == "" {
		return loadSettingsFile("")
	}
	return loadSettingsFile(filepath.Join(dir, SettingsFileName))
}

// LoadSettings reads the repository's settings file, if present, under
// SKIS_* environment overrides.
func (c *Config) LoadSettings() (Settings, error) {
	return loadSettingsFile(c.SettingsPath())
}

func loadSettingsFile(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return Settings{}, fmt.Errorf("reading %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Settings{}, err
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects settings the engine or CLI cannot use.
func (s Settings) Validate() error {
	if s.BusyTimeout < 0 {
		return fmt.Errorf("busy_timeout must not be negative, got %s", s.BusyTimeout)
	}
	if s.RetryMaxElapsed < 0 {
		return fmt.Errorf("retry_max_elapsed must not be negative, got %s", s.RetryMaxElapsed)
	}
	if _, err := s.Level(); err != nil {
		return err
	}
	if s.List.Limit <= 0 {
		return fmt.Errorf("list.limit must be positive, got %d", s.List.Limit)
	}
	if _, err := model.ParseSortField(s.List.Sort); err != nil {
		return fmt.Errorf("list.sort: %w", err)
	}
	if _, err := model.ParseSortOrder(s.List.Order); err != nil {
		return fmt.Errorf("list.order: %w", err)
	}
	return nil
}

// Level parses LogLevel as a slog level name.
func (s Settings) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// settingsFile is the on-disk shape of Settings. Durations are written as
// Go duration strings, which viper decodes back.
type settingsFile struct {
	BusyTimeout     string           `yaml:"busy_timeout"`
	RetryMaxElapsed string           `yaml:"retry_max_elapsed"`
	LogLevel        string           `yaml:"log_level"`
	LogFile         string           `yaml:"log_file,omitempty"`
	List            listSettingsFile `yaml:"list"`
}

type listSettingsFile struct {
	Limit int    `yaml:"limit"`
	Sort  string `yaml:"sort"`
	Order string `yaml:"order"`
}

// MarshalYAML implements yaml.Marshaler.
func (s Settings) MarshalYAML() (any, error) {
	return settingsFile{
		BusyTimeout:     s.BusyTimeout.String(),
		RetryMaxElapsed: s.RetryMaxElapsed.String(),
		LogLevel:        s.LogLevel,
		LogFile:         s.LogFile,
		List: listSettingsFile{
			Limit: s.List.Limit,
			Sort:  s.List.Sort,
			Order: s.List.Order,
		},
	}, nil
}

// EncodeYAML renders s in the settings file format.
func (s Settings) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDefault writes DefaultSettings to dir/config.yaml unless a settings
// file is already there.
func WriteDefault(dir string) (string, error) {
	return writeDefaultFile(filepath.Join(dir, SettingsFileName))
}

// WriteDefaultSettings writes DefaultSettings to the repository's settings
// file unless one exists, and returns its path.
func (c *Config) WriteDefaultSettings() (string, error) {
	return writeDefaultFile(c.SettingsPath())
}

func writeDefaultFile(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	data, err := DefaultSettings().EncodeYAML()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
