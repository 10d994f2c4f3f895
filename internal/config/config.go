package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/scheduler"
	"gopkg.in/yaml.v3"
)

// Config is the maintplan configuration file, ~/.maintplan/config.yaml by
// default. Every field is optional.
type Config struct {
	DBPath   string         `yaml:"db_path"`
	Log      LogConfig      `yaml:"log"`
	Calendar CalendarConfig `yaml:"calendar"`
	Policy   PolicyConfig   `yaml:"policy"`
}

type LogConfig struct {
	// Level: debug, info, warn or error.
	Level string `yaml:"level"`
	// Format: text or json. Empty picks text on a terminal and json otherwise.
	Format string `yaml:"format"`
}

// CalendarConfig is the work calendar applied to imported plans that do not
// carry their own.
type CalendarConfig struct {
	WorkStart string        `yaml:"work_start"`
	WorkEnd   string        `yaml:"work_end"`
	Breaks    []BreakConfig `yaml:"breaks,omitempty"`
}

type BreakConfig struct {
	Name  string `yaml:"name"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// PolicyConfig controls which readiness rules block a commit.
type PolicyConfig struct {
	SpareGraceDays  *int `yaml:"spare_grace_days,omitempty"`
	BlockOnServices bool `yaml:"block_on_services"`
	BlockOnStock    bool `yaml:"block_on_stock"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: "warn"},
		Calendar: CalendarConfig{
			WorkStart: domain.FormatClock(domain.DefaultWorkStartMin),
			WorkEnd:   domain.FormatClock(domain.DefaultWorkEndMin),
		},
	}
}

// DefaultPath is $MAINTPLAN_CONFIG or ~/.maintplan/config.yaml.
func DefaultPath() (string, error) {
	if v := os.Getenv("MAINTPLAN_CONFIG"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".maintplan", "config.yaml"), nil
}

// DefaultDBPath is the database location used when neither the file nor the
// environment names one.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".maintplan", "maintplan.db"), nil
}

// LoadConfig reads the YAML file at path on top of the defaults and then
// applies environment overrides. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing YAML: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.DBPath == "" {
		if cfg.DBPath, err = DefaultDBPath(); err != nil {
			return cfg, err
		}
	}
	if _, err := cfg.WorkCalendar(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MAINTPLAN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("MAINTPLAN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MAINTPLAN_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("MAINTPLAN_SPARE_GRACE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Policy.SpareGraceDays = &n
		}
	}
}

// WorkCalendar converts the calendar section into the default calendar for
// imports.
func (c Config) WorkCalendar() (domain.WorkCalendar, error) {
	cal := domain.DefaultCalendar()
	if c.Calendar.WorkStart != "" {
		m, err := domain.ParseClock(c.Calendar.WorkStart)
		if err != nil {
			return cal, fmt.Errorf("calendar.work_start: %w", err)
		}
		cal.StartMin = m
	}
	if c.Calendar.WorkEnd != "" {
		m, err := domain.ParseClock(c.Calendar.WorkEnd)
		if err != nil {
			return cal, fmt.Errorf("calendar.work_end: %w", err)
		}
		cal.EndMin = m
	}
	if cal.EndMin <= cal.StartMin {
		return cal, fmt.Errorf("calendar: work_end %s must be after work_start %s",
			domain.FormatClock(cal.EndMin), domain.FormatClock(cal.StartMin))
	}
	if len(c.Calendar.Breaks) > domain.MaxBreaks {
		return cal, fmt.Errorf("calendar: at most %d breaks allowed", domain.MaxBreaks)
	}
	for i, b := range c.Calendar.Breaks {
		start, err := domain.ParseClock(b.Start)
		if err != nil {
			return cal, fmt.Errorf("calendar.breaks[%d].start: %w", i, err)
		}
		end, err := domain.ParseClock(b.End)
		if err != nil {
			return cal, fmt.Errorf("calendar.breaks[%d].end: %w", i, err)
		}
		cal.Breaks = append(cal.Breaks, domain.Break{Name: b.Name, StartMin: start, EndMin: end})
	}
	return cal.WithSortedBreaks(), nil
}

// SchedulerPolicy converts the policy section.
func (c Config) SchedulerPolicy() scheduler.Policy {
	p := scheduler.DefaultPolicy()
	if c.Policy.SpareGraceDays != nil {
		p.SpareGraceDays = *c.Policy.SpareGraceDays
	}
	p.BlockOnServices = c.Policy.BlockOnServices
	p.BlockOnStock = c.Policy.BlockOnStock
	return p
}
