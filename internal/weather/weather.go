// Package weather provides current conditions used to bias the watering
// schedule shown to the user.
package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/urbanroots/internal/clock"
	"github.com/sandeepkv93/urbanroots/internal/model"
)

type Provider interface {
	Name() string
	Current(ctx context.Context, location string) (model.WeatherSnapshot, error)
}

// Simulated stands in for a remote weather service. It waits a fixed delay
// and answers with conditions typical for the month.
type Simulated struct {
	clock   clock.Clock
	latency time.Duration
}

func NewSimulated(c clock.Clock, latency time.Duration) *Simulated {
	if c == nil {
		c = clock.System{}
	}
	return &Simulated{clock: c, latency: latency}
}

func (s *Simulated) Name() string {
	return "simulated"
}

func (s *Simulated) Current(ctx context.Context, location string) (model.WeatherSnapshot, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return model.WeatherSnapshot{}, fmt.Errorf("weather: location is required")
	}
	if err := s.clock.Sleep(ctx, s.latency); err != nil {
		return model.WeatherSnapshot{}, fmt.Errorf("weather: fetch canceled: %w", err)
	}
	now := s.clock.Now()
	snap := ForMonth(now.Month())
	snap.Location = location
	snap.ObservedAt = now
	return snap, nil
}

// ForMonth returns the canned conditions for a month.
func ForMonth(m time.Month) model.WeatherSnapshot {
	switch m {
	case time.July, time.August, time.September:
		return model.WeatherSnapshot{Description: "Monsoon showers", TemperatureC: 27, Humidity: 88, Rain: true}
	case time.May, time.June:
		return model.WeatherSnapshot{Description: "Hot and sunny", TemperatureC: 36, Humidity: 35, Sun: true}
	case time.March, time.April:
		return model.WeatherSnapshot{Description: "Warm and clear", TemperatureC: 31, Humidity: 45, Sun: true}
	case time.December, time.January, time.February:
		return model.WeatherSnapshot{Description: "Cool and hazy", TemperatureC: 19, Humidity: 55}
	default:
		return model.WeatherSnapshot{Description: "Partly cloudy", TemperatureC: 26, Humidity: 65}
	}
}

// Fixed always reports the same snapshot. Useful when the conditions are
// supplied by the user.
type Fixed model.WeatherSnapshot

func (f Fixed) Name() string {
	return "fixed"
}

func (f Fixed) Current(_ context.Context, location string) (model.WeatherSnapshot, error) {
	snap := model.WeatherSnapshot(f)
	if snap.Location == "" {
		snap.Location = location
	}
	return snap, nil
}

var (
	_ Provider = (*Simulated)(nil)
	_ Provider = Fixed{}
)
