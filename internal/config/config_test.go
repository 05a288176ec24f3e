package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazgutek/ajour/internal/addons"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "Games", "world-of-warcraft"), cfg.GameDir)
	assert.Equal(t, addons.FlavorRetail, cfg.GetFlavor())
	assert.Equal(t, filepath.Join(home, "data", "ajour"), cfg.DataDir)
	assert.Equal(t, filepath.Join(home, "cache", "ajour"), cfg.CacheDir)
	assert.Equal(t, filepath.Join(home, "data", "ajour", "downloads"), cfg.StagingDir)
	assert.False(t, cfg.Verbose)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("AJOUR_FLAVOR", "classic")
	t.Setenv("AJOUR_GAME_DIR", "/opt/wow")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, addons.FlavorClassic, cfg.GetFlavor())
	assert.Equal(t, filepath.Join("/opt/wow", "_classic_", "Interface", "AddOns"), cfg.AddonsDir())
}

func TestLoadConfigFile(t *testing.T) {
	home := isolate(t)
	dataDir := filepath.Join(home, "data", "ajour")
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "ajour.yaml"),
		[]byte("game_dir: /games/wow\nstaging_dir: /tmp/staging\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/games/wow", cfg.GameDir)
	assert.Equal(t, "/tmp/staging", cfg.StagingDir)
}

func TestLoadMalformedConfigFile(t *testing.T) {
	home := isolate(t)
	dataDir := filepath.Join(home, "data", "ajour")
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "ajour.yaml"), []byte("game_dir: [\n"), 0644))

	_, err := Load()
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid retail", Config{GameDir: "/wow", Flavor: "retail"}, ""},
		{"valid classic", Config{GameDir: "/wow", Flavor: "classic"}, ""},
		{"missing game dir", Config{Flavor: "retail"}, "game_dir is required"},
		{"unknown flavor", Config{GameDir: "/wow", Flavor: "ptr"}, "flavor must be retail or classic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
