package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the metadata directory marking a repository root.
	DirName = ".skis"
	// DBFileName is the store file inside DirName.
	DBFileName = "issues.db"
)

var (
	ErrNotARepository     = errors.New("not a skis repository")
	ErrAlreadyInitialized = errors.New("repository already initialized")
)

// NotARepositoryError reports that no ancestor of Start holds a .skis
// directory.
type NotARepositoryError struct {
	Start string
}

func (e *NotARepositoryError) Error() string {
	return fmt.Sprintf("not a skis repository (or any parent up to /): %s", e.Start)
}

func (e *NotARepositoryError) Unwrap() error { return ErrNotARepository }

// AlreadyInitializedError reports an existing .skis directory at Path.
type AlreadyInitializedError struct {
	Path string
}

func (e *AlreadyInitializedError) Error() string {
	return fmt.Sprintf("skis repository already initialized at %s", e.Path)
}

func (e *AlreadyInitializedError) Unwrap() error { return ErrAlreadyInitialized }

// Config holds the resolved locations of a repository.
type Config struct {
	Root   string // directory containing .skis
	Dir    string // the .skis directory
	DBPath string // full path to issues.db
}

func newConfig(root string) *Config {
	dir := filepath.Join(root, DirName)
	return &Config{
		Root:   root,
		Dir:    dir,
		DBPath: filepath.Join(dir, DBFileName),
	}
}

// SettingsPath returns the optional settings file inside the repository.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFileName)
}

// Find checks start and each of its ancestors for a .skis directory and
// returns the first one found. It never looks below or beside the path.
func Find(start string) (*Config, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", start, err)
	}

	for dir := abs; ; {
		ok, err := isDir(filepath.Join(dir, DirName))
		if err != nil {
			return nil, err
		}
		if ok {
			return newConfig(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, &NotARepositoryError{Start: abs}
		}
		dir = parent
	}
}

// Create makes dir/.skis. It does not look at ancestors, so a repository
// may be nested inside another.
func Create(dir string) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	cfg := newConfig(abs)

	if err := os.Mkdir(cfg.Dir, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, &AlreadyInitializedError{Path: cfg.Dir}
		}
		return nil, fmt.Errorf("creating %s: %w", cfg.Dir, err)
	}
	return cfg, nil
}

// Exists checks if the .skis directory and DB file both exist.
// It returns an error for non-existence failures (e.g. permission errors).
func (c *Config) Exists() (bool, error) {
	if ok, err := isDir(c.Dir); !ok || err != nil {
		return false, err
	}
	if _, err := os.Stat(c.DBPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
