// Package config loads the studyblocks TOML configuration and applies
// environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/learning"
)

const (
	EnvDB       = "STUDYBLOCKS_DB"
	EnvConfig   = "STUDYBLOCKS_CONFIG"
	EnvLogLevel = "STUDYBLOCKS_LOG_LEVEL"
	EnvTimezone = "STUDYBLOCKS_TZ"
)

// Config represents ~/.studyblocks/config.toml.
type Config struct {
	DBPath   string   `toml:"db-path"`
	Log      Log      `toml:"log"`
	Schedule Schedule `toml:"schedule"`
	Learner  Learner  `toml:"learner"`
}

type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// Schedule holds the defaults the CLI turns into domain.Constraints.
type Schedule struct {
	DayStartHour      int    `toml:"day-start-hour"`
	DayEndHour        int    `toml:"day-end-hour"`
	MaxStudyMinPerDay int    `toml:"max-study-min-per-day"`
	MaxBlockMin       int    `toml:"max-block-min"`
	MinGapMin         int    `toml:"min-gap-min"`
	SlotStepMin       int    `toml:"slot-step-min"`
	HorizonDays       int    `toml:"horizon-days"`
	Timezone          string `toml:"timezone"`
	// Blackout lists recurring daily windows such as "12:00-13:00".
	Blackout []string `toml:"blackout"`
}

// Learner overrides the adaptation step sizes. Zero keeps the default.
type Learner struct {
	WeightStep float64 `toml:"weight-step"`
	BiasStep   float64 `toml:"bias-step"`
	EnergyStep float64 `toml:"energy-step"`
}

func Default() Config {
	return Config{
		Log: Log{Level: "warn"},
		Schedule: Schedule{
			DayStartHour:      8,
			DayEndHour:        22,
			MaxStudyMinPerDay: 240,
			MinGapMin:         10,
			SlotStepMin:       domain.DefaultSlotStepMin,
			HorizonDays:       7,
		},
	}
}

// Load reads the config file named by STUDYBLOCKS_CONFIG, or
// ~/.studyblocks/config.toml, then applies environment overrides.
// A missing file yields the defaults.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.toml")
	}
	return LoadFrom(path, os.Getenv)
}

// Dir returns ~/.studyblocks.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".studyblocks"), nil
}

// LoadFrom reads path and applies overrides from getenv.
func LoadFrom(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	default:
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config file %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}

	if v := getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv(EnvTimezone); v != "" {
		cfg.Schedule.Timezone = v
	}

	if cfg.DBPath == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = filepath.Join(dir, "studyblocks.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if _, err := c.Schedule.Location(); err != nil {
		return err
	}
	if _, err := c.Schedule.DailyWindows(); err != nil {
		return err
	}
	s := c.Schedule
	if s.DayStartHour < 0 || s.DayEndHour > 24 || s.DayStartHour >= s.DayEndHour {
		return fmt.Errorf("schedule: day hours %d-%d must satisfy 0 <= start < end <= 24", s.DayStartHour, s.DayEndHour)
	}
	if s.HorizonDays <= 0 {
		return fmt.Errorf("schedule: horizon-days must be positive, got %d", s.HorizonDays)
	}
	if s.MaxStudyMinPerDay <= 0 {
		return fmt.Errorf("schedule: max-study-min-per-day must be positive, got %d", s.MaxStudyMinPerDay)
	}
	return nil
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// Location resolves the configured timezone. Empty means the local zone.
func (s Schedule) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("schedule: timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

func (s Schedule) DailyWindows() ([]domain.DailyWindow, error) {
	out := make([]domain.DailyWindow, 0, len(s.Blackout))
	for _, raw := range s.Blackout {
		w, err := domain.ParseDailyWindow(raw)
		if err != nil {
			return nil, fmt.Errorf("schedule: blackout: %w", err)
		}
		out = append(out, w)
	}
	return out, nil
}

// Constraints builds scheduling constraints for a horizon that opens at now
// and closes horizon-days after local midnight of now's day.
func (c Config) Constraints(now time.Time) (domain.Constraints, error) {
	s := c.Schedule
	loc, err := s.Location()
	if err != nil {
		return domain.Constraints{}, err
	}
	windows, err := s.DailyWindows()
	if err != nil {
		return domain.Constraints{}, err
	}

	start := now.Truncate(time.Minute)
	end := domain.StartOfDay(now, loc).AddDate(0, 0, s.HorizonDays)
	return domain.Constraints{
		HorizonStart:      start,
		HorizonEnd:        end,
		DayStartHour:      s.DayStartHour,
		DayEndHour:        s.DayEndHour,
		MaxStudyMinPerDay: s.MaxStudyMinPerDay,
		MaxBlockMin:       s.MaxBlockMin,
		MinGapMin:         s.MinGapMin,
		SlotStepMin:       s.SlotStepMin,
		DoNotSchedule:     domain.ExpandDailyWindows(start, end, loc, windows),
		Location:          loc,
	}, nil
}

// LearnerConfig returns learning.DefaultConfig with configured step sizes
// and the schedule timezone for reading block hours.
func (c Config) LearnerConfig() (learning.Config, error) {
	cfg := learning.DefaultConfig()
	if c.Learner.WeightStep > 0 {
		cfg.WeightStep = c.Learner.WeightStep
	}
	if c.Learner.BiasStep > 0 {
		cfg.BiasStep = c.Learner.BiasStep
	}
	if c.Learner.EnergyStep > 0 {
		cfg.EnergyStep = c.Learner.EnergyStep
	}
	loc, err := c.Schedule.Location()
	if err != nil {
		return cfg, err
	}
	cfg.Location = loc
	return cfg, nil
}
