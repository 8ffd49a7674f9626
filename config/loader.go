package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file.
	ProjectConfigFile = "partkb.yaml"
	// UserConfigDir is the user-level config directory relative to $HOME.
	UserConfigDir = ".config/partkb"
	// UserConfigFile is the name of the user-level config file.
	UserConfigFile = "config.yaml"
)

// Loader resolves configuration with layered precedence.
type Loader struct {
	home   string
	dir    string
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader) error

// WithHomeDir sets the directory searched for the user config.
// An empty value disables the user layer.
func WithHomeDir(home string) LoaderOption {
	return func(l *Loader) error {
		l.home = home
		return nil
	}
}

// WithWorkDir sets where the project config search starts.
// An empty value disables the project layer.
func WithWorkDir(dir string) LoaderOption {
	return func(l *Loader) error {
		l.dir = dir
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a loader rooted at the user's home and working
// directories.
func NewLoader(opts ...LoaderOption) (*Loader, error) {
	l := &Loader{logger: slog.Default()}
	if home, err := os.UserHomeDir(); err == nil {
		l.home = home
	}
	if dir, err := os.Getwd(); err == nil {
		l.dir = dir
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Load builds the configuration from defaults, the user file, the nearest
// project file and finally explicit, if non-empty. A missing user or project
// file is skipped; a missing explicit file is an error.
func (l *Loader) Load(explicit string) (*Config, error) {
	cfg := Default()

	if path := l.UserConfigPath(); path != "" {
		switch err := cfg.ApplyFile(path); {
		case err == nil:
			l.logger.Debug("loaded user config", "path", path)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, err
		}
	}

	if path := l.ProjectConfigPath(); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return nil, err
		}
		l.logger.Debug("loaded project config", "path", path)
	}

	if explicit != "" {
		if err := cfg.ApplyFile(explicit); err != nil {
			return nil, err
		}
		l.logger.Debug("loaded config", "path", explicit)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UserConfigPath returns the user config location, or "" without a home.
func (l *Loader) UserConfigPath() string {
	if l.home == "" {
		return ""
	}
	return filepath.Join(l.home, UserConfigDir, UserConfigFile)
}

// ProjectConfigPath returns the nearest partkb.yaml in the working directory
// or one of its parents, or "" if there is none.
func (l *Loader) ProjectConfigPath() string {
	if l.dir == "" {
		return ""
	}
	dir := l.dir
	for {
		path := filepath.Join(dir, ProjectConfigFile)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
