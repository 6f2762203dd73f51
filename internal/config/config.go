// Package config turns viper settings into a validated runtime
// configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sandeepkv93/urbanroots/internal/storage"
)

const EnvPrefix = "URBANROOTS"

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Store         StoreConfig
	Reminders     RemindersConfig
	Weather       WeatherConfig
	Checkout      CheckoutConfig
	Plants        PlantsConfig
	Curation      CurationConfig
	Community     CommunityConfig
	Notifications NotificationsConfig
	Logging       LoggingConfig
}

type StoreConfig struct {
	Driver storage.Driver
	Path   string
}

type RemindersConfig struct {
	PollInterval    time.Duration
	SchedulerBuffer int
}

type WeatherConfig struct {
	Location      string
	Latency       time.Duration
	CacheTTL      time.Duration
	RatePerMinute int
}

type CheckoutConfig struct {
	Latency time.Duration
}

type PlantsConfig struct {
	Latency time.Duration
}

type CurationConfig struct {
	Latency time.Duration
}

type CommunityConfig struct {
	Latency time.Duration
}

type NotificationsConfig struct {
	Desktop bool
}

type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// DefaultStorePath is where the sqlite database lives unless configured.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "urbanroots.db"
	}
	return filepath.Join(home, ".local", "share", "urbanroots", "urbanroots.db")
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", string(storage.DriverSQLite))
	v.SetDefault("store.path", DefaultStorePath())
	v.SetDefault("reminders.poll_interval", time.Hour)
	v.SetDefault("reminders.scheduler_buffer", 64)
	v.SetDefault("weather.location", "Bengaluru")
	v.SetDefault("weather.latency", 800*time.Millisecond)
	v.SetDefault("weather.cache_ttl", 30*time.Minute)
	v.SetDefault("weather.rate_per_minute", 6)
	v.SetDefault("checkout.latency", 1500*time.Millisecond)
	v.SetDefault("plants.latency", time.Second)
	v.SetDefault("curation.latency", 1500*time.Millisecond)
	v.SetDefault("community.latency", time.Second)
	v.SetDefault("notifications.desktop", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("log_file", "")
}

// BindEnv makes URBANROOTS_STORE_DRIVER and friends override file values.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Store: StoreConfig{
			Driver: storage.Driver(strings.ToLower(strings.TrimSpace(v.GetString("store.driver")))),
			Path:   strings.TrimSpace(v.GetString("store.path")),
		},
		Reminders: RemindersConfig{
			PollInterval:    v.GetDuration("reminders.poll_interval"),
			SchedulerBuffer: v.GetInt("reminders.scheduler_buffer"),
		},
		Weather: WeatherConfig{
			Location:      strings.TrimSpace(v.GetString("weather.location")),
			Latency:       v.GetDuration("weather.latency"),
			CacheTTL:      v.GetDuration("weather.cache_ttl"),
			RatePerMinute: v.GetInt("weather.rate_per_minute"),
		},
		Checkout:      CheckoutConfig{Latency: v.GetDuration("checkout.latency")},
		Plants:        PlantsConfig{Latency: v.GetDuration("plants.latency")},
		Curation:      CurationConfig{Latency: v.GetDuration("curation.latency")},
		Community:     CommunityConfig{Latency: v.GetDuration("community.latency")},
		Notifications: NotificationsConfig{Desktop: v.GetBool("notifications.desktop")},
		Logging: LoggingConfig{
			Level:  strings.ToLower(v.GetString("logging.level")),
			Format: strings.ToLower(v.GetString("logging.format")),
			File:   v.GetString("log_file"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if !c.Store.Driver.IsValid() {
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	if c.Store.Driver != storage.DriverMemory && c.Store.Path == "" {
		return fmt.Errorf("%w: store.path is required for %s", ErrInvalidConfig, c.Store.Driver)
	}
	if c.Reminders.PollInterval <= 0 {
		return fmt.Errorf("%w: reminders.poll_interval must be positive", ErrInvalidConfig)
	}
	if c.Reminders.SchedulerBuffer <= 0 {
		return fmt.Errorf("%w: reminders.scheduler_buffer must be positive", ErrInvalidConfig)
	}
	if c.Weather.Location == "" {
		return fmt.Errorf("%w: weather.location is required", ErrInvalidConfig)
	}
	for name, d := range map[string]time.Duration{
		"weather.latency":   c.Weather.Latency,
		"weather.cache_ttl": c.Weather.CacheTTL,
		"checkout.latency":  c.Checkout.Latency,
		"plants.latency":    c.Plants.Latency,
		"curation.latency":  c.Curation.Latency,
		"community.latency": c.Community.Latency,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, name)
		}
	}
	if c.Weather.RatePerMinute < 0 {
		return fmt.Errorf("%w: weather.rate_per_minute must not be negative", ErrInvalidConfig)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: invalid log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: invalid log format %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}
