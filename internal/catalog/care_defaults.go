package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/urbanroots/internal/model"
)

const FallbackFrequencyDays = 7

type CareDefault struct {
	Kind          model.ReminderKind `yaml:"kind"`
	FrequencyDays int                `yaml:"frequency"`
	Notes         string             `yaml:"notes"`
}

// CareDefaults maps a plant type ("Herb", "Succulent", ...) to its
// suggested reminders.
type CareDefaults map[string][]CareDefault

func DefaultCare() CareDefaults {
	raw, err := dataFiles.ReadFile("data/care_defaults.yaml")
	if err != nil {
		panic(fmt.Sprintf("catalog: read care defaults: %v", err))
	}
	d, err := ParseCareDefaults(raw)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return d
}

func ParseCareDefaults(raw []byte) (CareDefaults, error) {
	var out CareDefaults
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode care defaults: %w", err)
	}
	for plantType, entries := range out {
		for _, e := range entries {
			if !e.Kind.IsValid() {
				return nil, fmt.Errorf("%s: %w: %q", plantType, model.ErrInvalidReminderKind, e.Kind)
			}
			if e.FrequencyDays <= 0 {
				return nil, fmt.Errorf("%s/%s: %w: %d", plantType, e.Kind, model.ErrInvalidFrequency, e.FrequencyDays)
			}
		}
	}
	return out, nil
}

// Lookup returns the frequency and note for a plant type and reminder kind,
// falling back to a weekly schedule with no note.
func (d CareDefaults) Lookup(plantType string, kind model.ReminderKind) (int, string) {
	for _, e := range d[plantType] {
		if e.Kind == kind {
			return e.FrequencyDays, e.Notes
		}
	}
	return FallbackFrequencyDays, ""
}

// Suggested lists the default reminders for a plant type.
func (d CareDefaults) Suggested(plantType string) []CareDefault {
	return append([]CareDefault(nil), d[plantType]...)
}
