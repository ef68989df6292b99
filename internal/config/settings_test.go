package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)

	s, err = LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettings_File(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`busy_timeout: 250ms
log_level: debug
list:
  limit: 5
  sort: created
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), data, 0o644))

	s, err := LoadSettings(dir)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, s.BusyTimeout)
	assert.Equal(t, 2*time.Second, s.RetryMaxElapsed, "unset keys keep defaults")
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 5, s.List.Limit)
	assert.Equal(t, "created", s.List.Sort)
	assert.Equal(t, "desc", s.List.Order)
}

func TestLoadSettings_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte("list:\n  limit: 5\n"), 0o644))
	t.Setenv("SKIS_LIST_LIMIT", "12")
	t.Setenv("SKIS_RETRY_MAX_ELAPSED", "1s")

	s, err := LoadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, 12, s.List.Limit)
	assert.Equal(t, time.Second, s.RetryMaxElapsed)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad level", "log_level: loud\n"},
		{"zero limit", "list:\n  limit: 0\n"},
		{"bad sort", "list:\n  sort: title\n"},
		{"bad order", "list:\n  order: sideways\n"},
		{"negative timeout", "busy_timeout: -1s\n"},
		{"not yaml", "list: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(tt.yaml), 0o644))

			_, err := LoadSettings(dir)
			assert.Error(t, err)
		})
	}
}

func TestWriteDefault_RoundTrips(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, SettingsFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "busy_timeout: 5s")
	assert.Contains(t, string(data), "limit: 30")

	s, err := LoadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestWriteDefault_KeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("log_level: error\n"), 0o644))

	_, err := WriteDefault(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "log_level: error\n", string(data))
}

func TestSettingsLevel(t *testing.T) {
	s := DefaultSettings()
	l, err := s.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	s.LogLevel = "DEBUG"
	l, err = s.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
}

func TestConfigSettingsFile(t *testing.T) {
	cfg, err := Create(t.TempDir())
	require.NoError(t, err)

	path, err := cfg.WriteDefaultSettings()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Dir, SettingsFileName), path)
	assert.Equal(t, cfg.SettingsPath(), path)

	require.NoError(t, os.WriteFile(path, []byte("list:\n  limit: 7\n"), 0o644))
	s, err := cfg.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, 7, s.List.Limit)

	_, err = cfg.WriteDefaultSettings()
	require.NoError(t, err)
	s, err = cfg.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, 7, s.List.Limit, "existing file is kept")
}
