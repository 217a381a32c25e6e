package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config keeps runtime settings for the planner.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Logger   LoggerConfig   `yaml:"logger"`
	Reminder ReminderConfig `yaml:"reminder"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type LoggerConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type ReminderConfig struct {
	At           string        `yaml:"at"`
	Every        time.Duration `yaml:"every"`
	UpcomingDays int           `yaml:"upcoming_days"`
}

var defaultStorePaths = map[string]string{
	"json":   "tasks_database.json",
	"sqlite": "tasks_database.db",
	"bolt":   "tasks_database.bolt",
}

// Load reads the optional YAML file at path, then applies environment
// overrides (a .env file in the working directory is honoured) and defaults.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the planner cannot run with.
func (c *Config) Validate() error {
	if _, ok := defaultStorePaths[c.Store.Driver]; !ok {
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Reminder.UpcomingDays < 0 {
		return errors.New("reminder upcoming_days must not be negative")
	}
	if c.Reminder.Every < 0 {
		return errors.New("reminder every must not be negative")
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Store.Driver = getString("PLANNER_STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.Path = getString("PLANNER_STORE_PATH", cfg.Store.Path)
	cfg.Logger.Level = getString("PLANNER_LOG_LEVEL", cfg.Logger.Level)
	cfg.Logger.Encoding = getString("PLANNER_LOG_ENCODING", cfg.Logger.Encoding)
	cfg.Reminder.At = getString("PLANNER_REMIND_AT", cfg.Reminder.At)
	cfg.Reminder.Every = getDuration("PLANNER_REMIND_EVERY", cfg.Reminder.Every)
	cfg.Reminder.UpcomingDays = getInt("PLANNER_UPCOMING_DAYS", cfg.Reminder.UpcomingDays)
}

func applyDefaults(cfg *Config) {
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "json"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePaths[cfg.Store.Driver]
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.Encoding == "" {
		cfg.Logger.Encoding = "console"
	}
	if cfg.Reminder.At == "" {
		cfg.Reminder.At = "08:00"
	}
	if cfg.Reminder.UpcomingDays == 0 {
		cfg.Reminder.UpcomingDays = 3
	}
}

func getString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if minutes, err := strconv.Atoi(val); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return fallback
}

// DefaultStorePath returns the store location used when none is configured.
func DefaultStorePath(driver string) string {
	return defaultStorePaths[driver]
}
