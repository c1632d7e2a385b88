// Package config loads runtime settings from defaults, an optional YAML
// file, an optional .env file and DAILYENGLISH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "DAILYENGLISH"

type Config struct {
	// DB is the SQLite file path. Empty means the default XDG location.
	DB       string         `mapstructure:"db"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Log      LogConfig      `mapstructure:"log"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Reminder ReminderConfig `mapstructure:"reminder"`
}

type CatalogConfig struct {
	// RemoteURL, when set, is fetched at startup to replace the built-in catalog.
	RemoteURL string        `mapstructure:"remote_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File enables a rotated JSON log at this path.
	File string `mapstructure:"file"`
}

type ScheduleConfig struct {
	DailyGoal    int           `mapstructure:"daily_goal"`
	WeeklyGoal   int           `mapstructure:"weekly_goal"`
	SeriesLength int           `mapstructure:"series_length"`
	RebuildDelay time.Duration `mapstructure:"rebuild_delay"`
}

type ReminderConfig struct {
	Hour int `mapstructure:"hour"`
}

// Options locate the optional config sources.
type Options struct {
	// ConfigFile is an explicit YAML path. Empty searches the XDG config dir.
	ConfigFile string

	// EnvFile is a dotenv file loaded into the environment before reading
	// it. A missing file is not an error. Empty means ".env".
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("catalog.remote_url", "")
	v.SetDefault("catalog.timeout", 10*time.Second)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("schedule.daily_goal", 12)
	v.SetDefault("schedule.weekly_goal", 4)
	v.SetDefault("schedule.series_length", 10)
	v.SetDefault("schedule.rebuild_delay", 500*time.Millisecond)
	v.SetDefault("reminder.hour", 19)
}

// Load resolves the configuration. Precedence, highest first: environment,
// config file, defaults. Command-line flags are applied by the caller.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else if dir, err := defaultConfigDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the scheduler cannot run with.
func (c *Config) Validate() error {
	if c.Schedule.DailyGoal <= 0 {
		return fmt.Errorf("schedule.daily_goal must be positive, got %d", c.Schedule.DailyGoal)
	}
	if c.Schedule.WeeklyGoal <= 0 || c.Schedule.WeeklyGoal > 7 {
		return fmt.Errorf("schedule.weekly_goal must be within 1..7, got %d", c.Schedule.WeeklyGoal)
	}
	if c.Schedule.SeriesLength <= 0 {
		return fmt.Errorf("schedule.series_length must be positive, got %d", c.Schedule.SeriesLength)
	}
	if c.Schedule.RebuildDelay < 0 {
		return fmt.Errorf("schedule.rebuild_delay must not be negative")
	}
	if c.Reminder.Hour < 0 || c.Reminder.Hour > 23 {
		return fmt.Errorf("reminder.hour must be within 0..23, got %d", c.Reminder.Hour)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// defaultConfigDir returns $XDG_CONFIG_HOME/dailyenglish, falling back to
// ~/.config/dailyenglish.
func defaultConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "dailyenglish"), nil
}
