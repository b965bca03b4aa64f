// Package config loads questbot settings from the environment and the
// optional break activity catalog file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/caarlos0/env/v11"
)

// Config holds process-level settings. Timer durations here only seed a
// fresh tracker; saved settings take precedence.
type Config struct {
	DBPath          string        `env:"QUESTBOT_DB"`
	PomodoroMinutes int           `env:"QUESTBOT_POMODORO_MINUTES"`
	BreakMinutes    int           `env:"QUESTBOT_BREAK_MINUTES"`
	ActivitiesFile  string        `env:"QUESTBOT_ACTIVITIES_FILE"`
	TrailDays       int           `env:"QUESTBOT_TRAIL_DAYS"`
	SaveDebounce    time.Duration `env:"QUESTBOT_SAVE_DEBOUNCE"`
	LogCalls        bool          `env:"QUESTBOT_LOG_CALLS"`
}

const (
	DefaultTrailDays    = 15
	DefaultSaveDebounce = 500 * time.Millisecond
)

// DefaultConfig returns the built-in configuration rooted at ~/.questbot.
func DefaultConfig() Config {
	dir := defaultDir()
	return Config{
		DBPath:          filepath.Join(dir, "questbot.db"),
		PomodoroMinutes: domain.DefaultPomodoroMinutes,
		BreakMinutes:    domain.DefaultBreakMinutes,
		ActivitiesFile:  filepath.Join(dir, "activities.yaml"),
		TrailDays:       DefaultTrailDays,
		SaveDebounce:    DefaultSaveDebounce,
	}
}

// LoadConfig overlays environment variables on the defaults. Unparseable
// values are an error; non-positive numbers fall back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := ParseEnv(&cfg); err != nil {
		return DefaultConfig(), err
	}
	cfg.normalize()
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	def := DefaultConfig()
	c.DBPath = expandHome(domain.CoalesceStr(strings.TrimSpace(c.DBPath), def.DBPath))
	c.ActivitiesFile = expandHome(domain.CoalesceStr(strings.TrimSpace(c.ActivitiesFile), def.ActivitiesFile))
	c.PomodoroMinutes = domain.IntWithDefault(c.PomodoroMinutes, def.PomodoroMinutes)
	c.BreakMinutes = domain.IntWithDefault(c.BreakMinutes, def.BreakMinutes)
	c.TrailDays = domain.IntWithDefault(c.TrailDays, def.TrailDays)
	if c.SaveDebounce <= 0 {
		c.SaveDebounce = def.SaveDebounce
	}
}

// Settings combines the configured durations with catalog, falling back to
// the built-in activities when catalog is empty.
func (c Config) Settings(catalog []string) domain.Settings {
	s := domain.DefaultSettings()
	s.PomodoroMinutes = c.PomodoroMinutes
	s.BreakMinutes = c.BreakMinutes
	if len(catalog) > 0 {
		s.BreakActivities = append([]string(nil), catalog...)
	}
	return s
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".questbot"
	}
	return filepath.Join(home, ".questbot")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
