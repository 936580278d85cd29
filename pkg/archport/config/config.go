// Package config loads archport settings from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/arthur-debert/archport/pkg/archport/core"
	"github.com/arthur-debert/archport/pkg/archport/validation"
)

// Project is a managed location that exports should warn about.
type Project struct {
	Name     string `toml:"name"`
	Location string `toml:"location"`
}

// Workspace describes the reserved root and the projects inside or outside it.
type Workspace struct {
	Root     string    `toml:"root"`
	Projects []Project `toml:"projects"`
}

// Defaults holds the values CLI flags start from.
type Defaults struct {
	Format       string `toml:"format"`
	Overwrite    bool   `toml:"overwrite"`
	CreateLeadup bool   `toml:"create_leadup"`
	Compress     bool   `toml:"compress"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

type Config struct {
	Workspace Workspace `toml:"workspace"`
	Defaults  Defaults  `toml:"defaults"`
	Log       Log       `toml:"log"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Defaults: Defaults{
			Format:       "zip",
			CreateLeadup: true,
			Compress:     true,
		},
		Log: Log{Level: "warn"},
	}
}

// Load reads the first config file found among the explicit path,
// $XDG_CONFIG_HOME/archport/config.toml and ~/.archport.toml. Missing files
// are skipped; when none exists Default is returned. An explicit path that
// does not exist is an error.
func Load(explicit string) (*Config, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("config file %s: %w", explicit, err)
		}
	}

	for _, path := range configPaths(explicit) {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		cfg := Default()
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.Path = path
		cfg.expandPaths()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
		return cfg, nil
	}

	return Default(), nil
}

func configPaths(explicit string) []string {
	home, _ := os.UserHomeDir()

	var paths []string
	if explicit != "" {
		paths = append(paths, explicit)
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" && home != "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	if xdgConfig != "" {
		paths = append(paths, filepath.Join(xdgConfig, "archport", "config.toml"))
	}
	if home != "" {
		paths = append(paths, filepath.Join(home, ".archport.toml"))
	}
	return paths
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}

func (c *Config) expandPaths() {
	c.Workspace.Root = expandHome(c.Workspace.Root)
	for i := range c.Workspace.Projects {
		c.Workspace.Projects[i].Location = expandHome(c.Workspace.Projects[i].Location)
	}
}

// Validate checks values that cannot be verified by decoding alone.
func (c *Config) Validate() error {
	if c.Defaults.Format != "" {
		if _, err := core.ParseArchiveFormat(c.Defaults.Format); err != nil {
			return fmt.Errorf("defaults.format: %w", err)
		}
	}
	for i, p := range c.Workspace.Projects {
		if p.Name == "" {
			return fmt.Errorf("workspace.projects[%d]: name is required", i)
		}
	}
	return nil
}

// DefaultFormat returns the configured export format, zip when unset.
func (c *Config) DefaultFormat() core.ArchiveFormat {
	f, err := core.ParseArchiveFormat(c.Defaults.Format)
	if err != nil {
		return core.ArchiveFormatZip
	}
	return f
}

// Oracle returns the conflict oracle for the configured workspace.
func (c *Config) Oracle() *validation.WorkspaceOracle {
	projects := make([]validation.Project, len(c.Workspace.Projects))
	for i, p := range c.Workspace.Projects {
		projects[i] = validation.Project{Name: p.Name, Location: p.Location}
	}
	return &validation.WorkspaceOracle{Root: c.Workspace.Root, Projects: projects}
}
