package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SlabTile/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAppConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultSeam = 2
	cfg.Units = "cm"
	cfg.TilesPerBox = 6
	cfg.Cutter.Profile = "Grbl"
	cfg.RecentProjects = []string{"/tmp/kitchen.slabtile", "/tmp/bath.slabtile"}
	require.NoError(t, SaveAppConfig(path, cfg))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadAppConfig(t *testing.T) {
	defaults := model.DefaultAppConfig()

	t.Run("missing file gives defaults", func(t *testing.T) {
		cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "absent", "config.json"))
		require.NoError(t, err)
		assert.Equal(t, defaults, cfg)
	})

	t.Run("partial file keeps other defaults", func(t *testing.T) {
		cfg, err := LoadAppConfig(writeFile(t, "config.json", `{"units":"m","max_cells":500}`))
		require.NoError(t, err)
		assert.Equal(t, "m", cfg.Units)
		assert.Equal(t, 500, cfg.MaxCells)
		assert.Equal(t, defaults.DefaultTileWidth, cfg.DefaultTileWidth)
		assert.Equal(t, defaults.Cutter, cfg.Cutter)
	})

	t.Run("null recent list becomes empty", func(t *testing.T) {
		cfg, err := LoadAppConfig(writeFile(t, "config.json", `{"recent_projects":null}`))
		require.NoError(t, err)
		assert.NotNil(t, cfg.RecentProjects)
		assert.Empty(t, cfg.RecentProjects)
	})

	t.Run("invalid JSON names the file", func(t *testing.T) {
		_, err := LoadAppConfig(writeFile(t, "config.json", "not valid json{{{"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config.json")
	})
}

func TestAddRecentProject(t *testing.T) {
	tests := []struct {
		name   string
		recent []string
		path   string
		max    int
		want   []string
	}{
		{"moves existing to front", []string{"a", "b", "c"}, "c", 3, []string{"c", "a", "b"}},
		{"trims to max", []string{"c", "a", "b"}, "d", 2, []string{"d", "c"}},
		{"first entry", nil, "a", 5, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := model.AppConfig{RecentProjects: tt.recent}
			AddRecentProject(&cfg, tt.path, tt.max)
			assert.Equal(t, tt.want, cfg.RecentProjects)
		})
	}
}

func TestApplyToSettingsUsesSavedDefaults(t *testing.T) {
	cfg := model.DefaultAppConfig()
	cfg.DefaultTileWidth, cfg.DefaultTileHeight, cfg.DefaultSeam = 600, 300, 3

	var s model.GridSettings
	cfg.ApplyToSettings(&s)
	assert.Equal(t, 600.0, s.TileWidth)
	assert.Equal(t, 300.0, s.TileHeight)
	assert.Equal(t, 3.0, s.Seam)
	assert.Equal(t, cfg.MaxCells, s.MaxCells)
}

func TestDefaultConfigPaths(t *testing.T) {
	dir := DefaultConfigDir()
	assert.Equal(t, ".slabtile", filepath.Base(dir))
	for _, p := range []string{DefaultConfigPath(), DefaultTemplatePath()} {
		assert.Equal(t, dir, filepath.Dir(p))
	}
}
