package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/archport/pkg/archport/config"
	"github.com/arthur-debert/archport/pkg/archport/core"
)

const sampleConfig = `
[workspace]
root = "/ws"

[[workspace.projects]]
name = "alpha"
location = "/ws/alpha"

[[workspace.projects]]
name = "home-project"
location = "~/src/home"

[defaults]
format = "tgz"
overwrite = true

[log]
level = "debug"
`

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	return home
}

func TestLoadExplicit(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(t.TempDir(), "archport.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "/ws", cfg.Workspace.Root)
	require.Len(t, cfg.Workspace.Projects, 2)
	assert.Equal(t, filepath.Join(home, "src", "home"), cfg.Workspace.Projects[1].Location)
	assert.Equal(t, core.ArchiveFormatTarGzip, cfg.DefaultFormat())
	assert.True(t, cfg.Defaults.Overwrite)
	// Unset keys keep their defaults.
	assert.True(t, cfg.Defaults.Compress)
	assert.Equal(t, "debug", cfg.Log.Level)

	oracle := cfg.Oracle()
	name, ok := oracle.FindOverlappingManagedContainer("/ws/alpha/out.zip")
	assert.True(t, ok)
	assert.Equal(t, "alpha", name)
}

func TestLoadFallsBackToDefault(t *testing.T) {
	isolate(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Path)
	assert.Equal(t, core.ArchiveFormatZip, cfg.DefaultFormat())
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadLookupOrder(t *testing.T) {
	home := isolate(t)

	dotfile := filepath.Join(home, ".archport.toml")
	require.NoError(t, os.WriteFile(dotfile, []byte("[defaults]\nformat = \"tar\"\n"), 0644))

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, dotfile, cfg.Path)

	xdg := filepath.Join(home, "xdg", "archport", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(xdg), 0755))
	require.NoError(t, os.WriteFile(xdg, []byte("[defaults]\nformat = \"tar.bz2\"\n"), 0644))

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, xdg, cfg.Path)
	assert.Equal(t, core.ArchiveFormatTarBzip2, cfg.DefaultFormat())
}

func TestLoadErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	testCases := []struct {
		name    string
		content string
	}{
		{"syntax", "[workspace\nroot = 1"},
		{"bad format", "[defaults]\nformat = \"rar\"\n"},
		{"unnamed project", "[[workspace.projects]]\nlocation = \"/x\"\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0644))
			_, err := config.Load(path)
			assert.Error(t, err)
		})
	}

	_, err := config.Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
