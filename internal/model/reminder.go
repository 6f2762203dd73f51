package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidReminderKind = errors.New("model: invalid reminder kind")
	ErrInvalidFrequency    = errors.New("model: invalid reminder frequency")
)

const Day = 24 * time.Hour

func Days(n int) time.Duration {
	return time.Duration(n) * Day
}

type ReminderKind string

const (
	ReminderKindWater     ReminderKind = "water"
	ReminderKindFertilize ReminderKind = "fertilize"
	ReminderKindPrune     ReminderKind = "prune"
	ReminderKindRepot     ReminderKind = "repot"
	ReminderKindCheck     ReminderKind = "check"
	ReminderKindOther     ReminderKind = "other"
)

var reminderKindLabels = map[ReminderKind]string{
	ReminderKindWater:     "Water Plant",
	ReminderKindFertilize: "Apply Fertilizer",
	ReminderKindPrune:     "Prune Plant",
	ReminderKindRepot:     "Repot Plant",
	ReminderKindCheck:     "Check Health",
	ReminderKindOther:     "Custom Reminder",
}

func ReminderKinds() []ReminderKind {
	return []ReminderKind{
		ReminderKindWater,
		ReminderKindFertilize,
		ReminderKindPrune,
		ReminderKindRepot,
		ReminderKindCheck,
		ReminderKindOther,
	}
}

func (k ReminderKind) IsValid() bool {
	_, ok := reminderKindLabels[k]
	return ok
}

// Label is the human readable action, e.g. "Water Plant".
func (k ReminderKind) Label() string {
	if label, ok := reminderKindLabels[k]; ok {
		return label
	}
	return string(k)
}

func ParseReminderKind(raw string) (ReminderKind, error) {
	k := ReminderKind(strings.ToLower(strings.TrimSpace(raw)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidReminderKind, raw)
	}
	return k, nil
}

type Reminder struct {
	ID            string       `json:"id"`
	PlantID       string       `json:"plantId"`
	PlantName     string       `json:"plantName"`
	Kind          ReminderKind `json:"type"`
	FrequencyDays int          `json:"frequency"`
	NextDue       time.Time    `json:"nextDue"`
	LastCompleted *time.Time   `json:"lastCompleted,omitempty"`
	Enabled       bool         `json:"enabled"`
	Notes         string       `json:"notes,omitempty"`
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: reminder id is required")
	}
	if strings.TrimSpace(r.PlantID) == "" {
		return errors.New("model: reminder plant id is required")
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidReminderKind, r.Kind)
	}
	if r.FrequencyDays <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFrequency, r.FrequencyDays)
	}
	if r.NextDue.IsZero() {
		return errors.New("model: reminder next due is required")
	}
	return nil
}

// IsDue reports whether an enabled reminder has reached its next due time
// and has not been completed for the current cycle.
func (r Reminder) IsDue(now time.Time) bool {
	if !r.Enabled {
		return false
	}
	if r.NextDue.After(now) {
		return false
	}
	return r.LastCompleted == nil || r.LastCompleted.Before(r.NextDue)
}

// IsOverdue is IsDue with a strict comparison, ignoring the enabled flag.
func (r Reminder) IsOverdue(now time.Time) bool {
	if !r.NextDue.Before(now) {
		return false
	}
	return r.LastCompleted == nil || r.LastCompleted.Before(r.NextDue)
}

// CompletedAt returns a copy stamped as completed at the given instant and
// rescheduled FrequencyDays later.
func (r Reminder) CompletedAt(at time.Time) Reminder {
	done := at
	r.LastCompleted = &done
	r.NextDue = at.Add(Days(r.FrequencyDays))
	return r
}
