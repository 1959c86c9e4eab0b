package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, 60.0, cfg.Grid.SlotHeight)
	assert.Equal(t, 8, cfg.Grid.DefaultStart)
	assert.Equal(t, 18, cfg.Grid.DefaultEnd)
	assert.True(t, cfg.Use24h())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadPartialFileIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
listen: ":9000"
time_format: 12H
grid:
  slot_height: 40
  default_start: 7
import:
  - id: team
    url: https://example.com/team.ics
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.False(t, cfg.Use24h())
	assert.Equal(t, 40.0, cfg.Grid.SlotHeight)
	assert.Equal(t, 7, cfg.Grid.DefaultStart)
	assert.Equal(t, 18, cfg.Grid.DefaultEnd)
	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	require.Len(t, cfg.Import, 1)
	assert.Equal(t, "team", cfg.Import[0].ID)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestNormalizeRepairsGrid(t *testing.T) {
	c := &Config{Grid: GridConfig{DefaultStart: 20, DefaultEnd: 10}}
	c.Normalize()
	assert.Equal(t, 20, c.Grid.DefaultStart)
	assert.Equal(t, 21, c.Grid.DefaultEnd)

	c = &Config{Grid: GridConfig{DefaultStart: 30, DefaultEnd: 40}}
	c.Normalize()
	assert.Equal(t, 8, c.Grid.DefaultStart)
	assert.Equal(t, 18, c.Grid.DefaultEnd)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Listen = ":7000"
	cfg.BasicAuth = &BasicAuthConfig{Username: "u", Password: "p"}
	require.NoError(t, cfg.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("WEEKPLAN_LISTEN", " :8181 ")
	t.Setenv("WEEKPLAN_DATA_DIR", "/tmp/wp")
	t.Setenv("WEEKPLAN_SLOT_HEIGHT", "48")
	t.Setenv("WEEKPLAN_BASIC_AUTH_USERNAME", "admin")
	t.Setenv("WEEKPLAN_BASIC_AUTH_PASSWORD", "secret")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, ":8181", cfg.Listen)
	assert.Equal(t, "/tmp/wp", cfg.DataDir)
	assert.Equal(t, 48.0, cfg.Grid.SlotHeight)
	require.NotNil(t, cfg.BasicAuth)
	assert.Equal(t, "admin", cfg.BasicAuth.Username)
}

func TestApplyEnvIgnoresBadSlotHeight(t *testing.T) {
	t.Setenv("WEEKPLAN_SLOT_HEIGHT", "tall")
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, 60.0, cfg.Grid.SlotHeight)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("WEEKPLAN_TEST_ONLY_KEY=from-file\n"), 0o600))
	t.Setenv("WEEKPLAN_TEST_ONLY_KEY", "")
	require.NoError(t, os.Unsetenv("WEEKPLAN_TEST_ONLY_KEY"))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-file", os.Getenv("WEEKPLAN_TEST_ONLY_KEY"))

	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLocation(t *testing.T) {
	c := DefaultConfig()
	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	c.Timezone = "UTC"
	loc, err = c.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	c.Timezone = "Nowhere/Special"
	loc, err = c.Location()
	assert.Error(t, err)
	assert.Equal(t, time.Local, loc)
}
