package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults used by DefaultConfig and Normalize.
const (
	DefaultListen       = "127.0.0.1:8080"
	DefaultDataDir      = "/var/lib/weekplan"
	DefaultTimezone     = "Local"
	DefaultSnapshotCron = "*/15 * * * *"

	TimeFormat24h = "24h"
	TimeFormat12h = "12h"
)

// GridConfig controls the geometry of the week grid.
type GridConfig struct {
	// SlotHeight is the pixel height of one hour row.
	SlotHeight float64 `yaml:"slot_height" json:"slot_height"`
	// DefaultStart / DefaultEnd are the hours always visible, widened when
	// events fall outside them.
	DefaultStart int `yaml:"default_start" json:"default_start"`
	DefaultEnd   int `yaml:"default_end" json:"default_end"`
	// ColumnWidth is the pixel width of one day column in the HTML grid.
	ColumnWidth int `yaml:"column_width" json:"column_width"`
}

// SnapshotConfig drives the periodic export job run by `weekplan serve`.
type SnapshotConfig struct {
	// Cron is a cron-style schedule string. Empty disables the job.
	Cron string `yaml:"cron" json:"cron"`
	// ICS writes week.ics into the data dir on each run.
	ICS bool `yaml:"ics" json:"ics"`
	// Capture renders /calendar through headless Chromium into preview.png.
	Capture bool `yaml:"capture" json:"capture"`
	Width   int  `yaml:"width" json:"width"`
	Height  int  `yaml:"height" json:"height"`
}

// ImportSource is an ICS feed that `weekplan import` pulls into the week.
type ImportSource struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// DataDir holds the planner store, the ICS fetch cache and snapshots.
	DataDir string `yaml:"data_dir" json:"data_dir"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// Timezone anchors the current week for ICS export/import. Stored events
	// are wall-clock times and never converted.
	Timezone string `yaml:"timezone" json:"timezone"`

	// TimeFormat is the clock preference used until the user changes it.
	TimeFormat string `yaml:"time_format" json:"time_format"`

	Grid     GridConfig     `yaml:"grid" json:"grid"`
	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`

	Import []ImportSource `yaml:"import" json:"import"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{
		Snapshot: SnapshotConfig{
			Cron: DefaultSnapshotCron,
			ICS:  true,
		},
	}
	c.Normalize()
	return c
}

// Normalize fills in missing/zero values so partially-filled configs still
// behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	switch strings.ToLower(c.TimeFormat) {
	case TimeFormat12h:
		c.TimeFormat = TimeFormat12h
	default:
		c.TimeFormat = TimeFormat24h
	}

	if c.Grid.SlotHeight <= 0 {
		c.Grid.SlotHeight = 60
	}
	if c.Grid.DefaultStart == 0 && c.Grid.DefaultEnd == 0 {
		c.Grid.DefaultStart, c.Grid.DefaultEnd = 8, 18
	}
	if c.Grid.DefaultStart < 0 || c.Grid.DefaultStart > 23 {
		c.Grid.DefaultStart = 8
	}
	if c.Grid.DefaultEnd <= c.Grid.DefaultStart || c.Grid.DefaultEnd > 24 {
		c.Grid.DefaultEnd = min(24, max(18, c.Grid.DefaultStart+1))
	}
	if c.Grid.ColumnWidth <= 0 {
		c.Grid.ColumnWidth = 160
	}

	if c.Snapshot.Width <= 0 {
		c.Snapshot.Width = 1280
	}
	if c.Snapshot.Height <= 0 {
		c.Snapshot.Height = 960
	}
	if c.Import == nil {
		c.Import = []ImportSource{}
	}
}

// Use24h reports whether TimeFormat selects the 24-hour clock.
func (c *Config) Use24h() bool {
	return c.TimeFormat != TimeFormat12h
}

// Location resolves Timezone. "Local", empty and unknown names yield
// time.Local; the error reports an unknown name.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local, err
	}
	return loc, nil
}

// LoadEnv reads .env style files into the process environment. Missing files
// are ignored; variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides config values from WEEKPLAN_* environment variables.
func (c *Config) ApplyEnv() {
	if v := env("WEEKPLAN_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := env("WEEKPLAN_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := env("WEEKPLAN_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := env("WEEKPLAN_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := env("WEEKPLAN_SLOT_HEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.Grid.SlotHeight = f
		}
	}
	user, pass := env("WEEKPLAN_BASIC_AUTH_USERNAME"), env("WEEKPLAN_BASIC_AUTH_PASSWORD")
	if user != "" && pass != "" {
		c.BasicAuth = &BasicAuthConfig{Username: user, Password: pass}
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename, 0600).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".weekplan-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}
