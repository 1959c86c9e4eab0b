package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"weekplan/internal/config"
	"weekplan/internal/ics"
	"weekplan/internal/layout"
	appLog "weekplan/internal/log"
	"weekplan/internal/model"
	"weekplan/internal/persist"
	"weekplan/internal/planner"
)

const layoutISO = "2006-01-02"

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	ConfigPath string
	EnvFiles   []string
	DataDir    string
	LogLevel   string
	Ephemeral  bool
}

func addRootArgs(cmd *cobra.Command, o *rootOptions) {
	cmd.PersistentFlags().StringVar(&o.ConfigPath, "config", defaultConfigPath,
		"Path to the YAML config file. Created with defaults when missing.")
	cmd.PersistentFlags().StringSliceVar(&o.EnvFiles, "env-file", []string{".env"},
		"Dotenv files read before applying WEEKPLAN_* overrides.")
	cmd.PersistentFlags().StringVar(&o.DataDir, "data-dir", "",
		"Override the data directory from the config.")
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "",
		"Override the log level (DEBUG, INFO, WARN, ERROR).")
	cmd.PersistentFlags().BoolVar(&o.Ephemeral, "ephemeral", false,
		"Keep the planner in memory only; nothing is read from or written to the data directory.")
}

// app is the loaded configuration plus an open planner.
type app struct {
	cfg     *config.Config
	planner *planner.Planner
	loc     *time.Location
}

// open resolves configuration (file, dotenv, environment, flags in that
// order) and loads the planner from the data directory.
func (o *rootOptions) open() (*app, error) {
	if err := config.LoadEnv(o.EnvFiles...); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", o.ConfigPath, err)
	}
	cfg.ApplyEnv()
	if o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))

	loc, err := cfg.Location()
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", cfg.Timezone)
	}

	var (
		store persist.Persistence = persist.NewMemory()
		fresh                     = true
	)
	if !o.Ephemeral {
		disk, err := persist.NewDisk(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		store, fresh = disk, !disk.Stored()
	}
	p := planner.New(store, planner.Options{
		SlotHeight:   cfg.Grid.SlotHeight,
		DefaultRange: layout.ViewRange{Start: cfg.Grid.DefaultStart, End: cfg.Grid.DefaultEnd},
	})
	if fresh && p.Use24h() != cfg.Use24h() {
		if err := p.SetUse24h(cfg.Use24h()); err != nil {
			return nil, err
		}
	}

	appLog.Debug("effective config",
		"config", o.ConfigPath,
		"data_dir", cfg.DataDir,
		"timezone", loc.String(),
		"slot_height", cfg.Grid.SlotHeight,
		"import_count", len(cfg.Import),
	)
	return &app{cfg: cfg, planner: p, loc: loc}, nil
}

// weekStart parses a --week value, defaulting to the current week.
func (a *app) weekStart(value string) (time.Time, error) {
	if value == "" {
		return ics.WeekStart(time.Now(), a.loc), nil
	}
	t, err := time.ParseInLocation(layoutISO, value, a.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --week %q, want YYYY-MM-DD: %w", value, err)
	}
	return ics.WeekStart(t, a.loc), nil
}

// resolveID finds an event by full id or unique prefix.
func resolveID(p *planner.Planner, ref string) (model.Event, error) {
	if ref == "" {
		return model.Event{}, errors.New("empty entry id")
	}
	if ev, ok := p.Event(ref); ok {
		return ev, nil
	}
	var found []model.Event
	for _, ev := range p.Events() {
		if strings.HasPrefix(ev.ID, ref) {
			found = append(found, ev)
		}
	}
	switch len(found) {
	case 0:
		return model.Event{}, fmt.Errorf("%w: %s", planner.ErrNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return model.Event{}, fmt.Errorf("id prefix %q is ambiguous (%d matches)", ref, len(found))
	}
}

// eventFlags are the editable fields of an entry.
type eventFlags struct {
	Title string
	Day   string
	Start string
	End   string
	Color string
}

func addEventArgs(cmd *cobra.Command, f *eventFlags, defaults planner.Draft) {
	cmd.Flags().StringVar(&f.Title, "title", defaults.Title, "Entry title.")
	cmd.Flags().StringVar(&f.Day, "day", strings.ToLower(defaults.Day.String()[:3]),
		`Weekday: an index 0-6, a name or an abbreviation, example: --day=tue.`)
	cmd.Flags().StringVar(&f.Start, "start", defaults.Start, `Start time, "HH:MM" or "h:mm am/pm".`)
	cmd.Flags().StringVar(&f.End, "end", defaults.End, `End time; "00:00" means end of day.`)
	cmd.Flags().StringVar(&f.Color, "color", defaults.Color.String(), "Palette color: "+paletteIDs()+".")
}

// apply copies the flags that were set on cmd onto d. With all set it
// copies every flag regardless.
func (f *eventFlags) apply(cmd *cobra.Command, d *planner.Draft, all bool) error {
	changed := func(name string) bool { return all || cmd.Flags().Changed(name) }
	if changed("title") {
		d.Title = f.Title
	}
	if changed("day") {
		day, err := model.ParseDay(f.Day)
		if err != nil {
			return err
		}
		d.Day = day
	}
	if changed("start") {
		d.Start = f.Start
	}
	if changed("end") {
		d.End = f.End
	}
	if changed("color") {
		c, err := model.ParseColor(f.Color)
		if err != nil {
			return err
		}
		d.Color = c
	}
	return nil
}

func paletteIDs() string {
	ids := make([]string, 0, 6)
	for _, sw := range model.Palette() {
		ids = append(ids, sw.ID)
	}
	return strings.Join(ids, ", ")
}
