package update

import (
	"time"

	"github.com/sandeepkv93/urbanroots/internal/config"
)

type RuntimeConfig struct {
	Location       string
	FeedSize       int
	DueLogSize     int
	WeatherTimeout time.Duration
	ShowAll        bool
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Location:       "Bengaluru",
		FeedSize:       3,
		DueLogSize:     20,
		WeatherTimeout: 10 * time.Second,
		ShowAll:        false,
	}
}

// RuntimeConfigFrom overlays the loaded application config on base.
func RuntimeConfigFrom(base RuntimeConfig, cfg config.Config) RuntimeConfig {
	out := base
	if cfg.Weather.Location != "" {
		out.Location = cfg.Weather.Location
	}
	if cfg.Weather.Latency > 0 && out.WeatherTimeout < 4*cfg.Weather.Latency {
		out.WeatherTimeout = 4 * cfg.Weather.Latency
	}
	return out
}
