package model

import (
	"errors"
	"strings"
	"time"
)

type Plant struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Type           string `json:"type" yaml:"type"`
	Image          string `json:"image" yaml:"image"`
	WaterFrequency string `json:"waterFrequency" yaml:"water_frequency"`
	Sunlight       string `json:"sunlight" yaml:"sunlight"`
	DateAdded      string `json:"dateAdded" yaml:"date_added"`
}

const DateLayout = "2006-01-02"

func (p Plant) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("model: plant id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("model: plant name is required")
	}
	if strings.TrimSpace(p.Type) == "" {
		return errors.New("model: plant type is required")
	}
	if p.DateAdded != "" {
		if _, err := time.Parse(DateLayout, p.DateAdded); err != nil {
			return errors.New("model: plant date added must be YYYY-MM-DD")
		}
	}
	return nil
}

// WeatherSnapshot is a point-in-time reading. It only biases the displayed
// reminder schedule and is never stored.
type WeatherSnapshot struct {
	Location     string
	Description  string
	TemperatureC float64
	Humidity     float64
	Rain         bool
	Sun          bool
	ObservedAt   time.Time
}
