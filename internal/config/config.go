package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "TIMESPLIT"

var ErrInvalid = errors.New("invalid config")

type DataConfig struct {
	Backend string `mapstructure:"backend"` // "json" or "sqlite"
	Path    string `mapstructure:"path"`    // empty: next to the config file
}

type TimerConfig struct {
	DefaultFocusMinutes int `mapstructure:"default_focus_minutes"`
}

type ReminderConfig struct {
	HydrationMinutes int  `mapstructure:"hydration_minutes"`
	Notify           bool `mapstructure:"notify"`
}

type CalendarConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Credentials string        `mapstructure:"credentials"`
	Token       string        `mapstructure:"token"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxResults  int           `mapstructure:"max_results"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Timer    TimerConfig    `mapstructure:"timer"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Log      LogConfig      `mapstructure:"log"`

	dir string
}

func Default() Config {
	return Config{
		Data:     DataConfig{Backend: "json"},
		Timer:    TimerConfig{DefaultFocusMinutes: 25},
		Reminder: ReminderConfig{HydrationMinutes: 20, Notify: true},
		Calendar: CalendarConfig{
			Credentials: "credentials.json",
			Token:       "token.json",
			Timeout:     10 * time.Second,
			MaxResults:  15,
		},
		Log: LogConfig{File: "timesplit.log"},
	}
}

// Dir is ~/.config/timesplit.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "timesplit"), nil
}

// Load reads the YAML config at path, or the default location when path is
// empty. A missing file is fine. TIMESPLIT_* environment variables override
// file values, e.g. TIMESPLIT_DATA_BACKEND=sqlite.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		dir, err := Dir()
		if err != nil {
			return cfg, err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	cfg.dir = filepath.Dir(path)

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data.backend", cfg.Data.Backend)
	v.SetDefault("data.path", cfg.Data.Path)
	v.SetDefault("timer.default_focus_minutes", cfg.Timer.DefaultFocusMinutes)
	v.SetDefault("reminder.hydration_minutes", cfg.Reminder.HydrationMinutes)
	v.SetDefault("reminder.notify", cfg.Reminder.Notify)
	v.SetDefault("calendar.enabled", cfg.Calendar.Enabled)
	v.SetDefault("calendar.credentials", cfg.Calendar.Credentials)
	v.SetDefault("calendar.token", cfg.Calendar.Token)
	v.SetDefault("calendar.timeout", cfg.Calendar.Timeout)
	v.SetDefault("calendar.max_results", cfg.Calendar.MaxResults)
	v.SetDefault("log.file", cfg.Log.File)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}
	cfg.Data.Backend = strings.ToLower(strings.TrimSpace(cfg.Data.Backend))
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Data.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("data.backend %q: %w", c.Data.Backend, ErrInvalid)
	}
	if c.Timer.DefaultFocusMinutes <= 0 {
		return fmt.Errorf("timer.default_focus_minutes %d: %w", c.Timer.DefaultFocusMinutes, ErrInvalid)
	}
	if c.Reminder.HydrationMinutes <= 0 {
		return fmt.Errorf("reminder.hydration_minutes %d: %w", c.Reminder.HydrationMinutes, ErrInvalid)
	}
	if c.Calendar.MaxResults <= 0 {
		return fmt.Errorf("calendar.max_results %d: %w", c.Calendar.MaxResults, ErrInvalid)
	}
	return nil
}

// DataPath is where the backend keeps its document.
func (c Config) DataPath() string {
	if c.Data.Path != "" {
		return c.Data.Path
	}
	name := "app_data.json"
	if c.Data.Backend == "sqlite" {
		name = "timesplit.db"
	}
	return c.resolve(name)
}

func (c Config) CredentialsPath() string { return c.resolve(c.Calendar.Credentials) }
func (c Config) TokenPath() string       { return c.resolve(c.Calendar.Token) }
func (c Config) LogPath() string         { return c.resolve(c.Log.File) }

// resolve makes relative paths relative to the config directory.
func (c Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}
