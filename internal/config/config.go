package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultArchiveURL is the winget community repository snapshot indexed by wig.
const DefaultArchiveURL = "https://github.com/microsoft/winget-pkgs/archive/refs/heads/master.zip"

// DefaultDescriptorSuffix selects the English locale manifests inside the archive.
const DefaultDescriptorSuffix = "locale.en-US.yaml"

// DefaultResultLimit caps the number of matches shown per query.
const DefaultResultLimit = 20

// Installer describes how a chosen package is handed to the package manager.
// "{id}" in Args is replaced with the canonical package identifier.
type Installer struct {
	Command     string   `yaml:"command"`
	Args        []string `yaml:"args,omitempty"`
	StripMarker string   `yaml:"strip_marker,omitempty"`
	Terminal    []string `yaml:"terminal,omitempty"`
}

// Config is the in-memory representation of <data dir>/wig.yaml.
type Config struct {
	ArchiveURL       string    `yaml:"archive_url"`
	ArchivePath      string    `yaml:"archive_path,omitempty"`
	DescriptorSuffix string    `yaml:"descriptor_suffix,omitempty"`
	ResultLimit      int       `yaml:"result_limit,omitempty"`
	Installer        Installer `yaml:"installer"`
}

// DataDir returns the application data directory holding the store,
// the cached archive and wig.yaml.
func DataDir() (string, error) {
	if d := os.Getenv("WIG_DATA_DIR"); d != "" {
		return d, nil
	}
	if runtime.GOOS == "windows" {
		if d := os.Getenv("LOCALAPPDATA"); d != "" {
			return filepath.Join(d, "wig"), nil
		}
	}
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "wig"), nil
}

// ConfigPath returns the absolute path to <data dir>/wig.yaml.
func ConfigPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wig.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the configuration used when no wig.yaml exists.
func DefaultConfig() (*Config, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		ArchiveURL:       DefaultArchiveURL,
		ArchivePath:      filepath.Join(dir, "winget-pkgs-master.zip"),
		DescriptorSuffix: DefaultDescriptorSuffix,
		ResultLimit:      DefaultResultLimit,
		Installer: Installer{
			Command: "winget",
			Args: []string{
				"install", "--id", "{id}",
				"--accept-source-agreements",
				"--accept-package-agreements",
			},
			StripMarker: ".Portable",
		},
	}, nil
}

// Load reads <data dir>/wig.yaml, falling back to DefaultConfig when the
// file does not exist. Unset fields keep their defaults and WIG_ARCHIVE_URL
// overrides the archive URL.
func Load() (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
	}

	url, err := GetConfigValue("WIG_ARCHIVE_URL")
	if err != nil {
		return nil, err
	}
	if url != "" {
		cfg.ArchiveURL = url
	}
	cfg.ArchivePath, err = ExpandPath(cfg.ArchivePath)
	if err != nil {
		return nil, err
	}
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = DefaultResultLimit
	}
	if cfg.DescriptorSuffix == "" {
		cfg.DescriptorSuffix = DefaultDescriptorSuffix
	}
	return cfg, nil
}

// Save marshals cfg and writes it to <data dir>/wig.yaml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
