// Package config holds the tool's persistent settings. Everything a
// component needs is carried in an explicit Settings value passed to
// constructors; there is no package-level mutable state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = ".config/sandkit"
	configFileName = "config.yml"
	cacheDirName   = ".cache/sandkit"
)

type Settings struct {
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	Branch string `yaml:"branch"`

	// ScriptsPath is the repository folder holding sandbox scripts and
	// package lists; ScriptsDir is where they land locally.
	ScriptsPath string `yaml:"scripts_path"`
	ScriptsDir  string `yaml:"scripts_dir"`

	// AlwaysSyncPatterns are glob patterns for files kept in lockstep with
	// the remote. Everything else is download-if-missing.
	AlwaysSyncPatterns []string `yaml:"always_sync_patterns"`

	CacheDir            string `yaml:"cache_dir"`
	ReleaseCacheMinutes int    `yaml:"release_cache_minutes"`
	ContentCacheMinutes int    `yaml:"content_cache_minutes"`
}

func (s *Settings) ReleaseTTL() time.Duration {
	return time.Duration(s.ReleaseCacheMinutes) * time.Minute
}

func (s *Settings) ContentTTL() time.Duration {
	return time.Duration(s.ContentCacheMinutes) * time.Minute
}

func Default() *Settings {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Settings{
		Owner:               "Romanitho",
		Repo:                "Winget-AutoUpdate",
		Branch:              "main",
		ScriptsPath:         "Sources/Sandbox",
		ScriptsDir:          filepath.Join(home, configDirName, "scripts"),
		AlwaysSyncPatterns:  []string{"Std-*.ps1", "Std-*.txt"},
		CacheDir:            filepath.Join(home, cacheDirName),
		ReleaseCacheMinutes: 60,
		ContentCacheMinutes: 15,
	}
}

func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Load reads the persistent config. A missing file is an error so commands
// can point the user at `sandkit init`.
func Load() (*Settings, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no configuration found. Please run 'sandkit init' first")
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	settings := Default()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
	}
	return settings, nil
}

func (s *Settings) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
