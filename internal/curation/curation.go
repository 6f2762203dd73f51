package curation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/sandeepkv93/urbanroots/internal/clock"
	"github.com/sandeepkv93/urbanroots/internal/notify"
	"github.com/sandeepkv93/urbanroots/internal/storage"
)

var ErrInvalidAnswer = errors.New("curation: invalid answer")

// Answers are the questionnaire responses. Every field is optional; the
// choice fields hold ids from Questions.
type Answers struct {
	GardenType      string    `json:"gardenType"`
	Goals           []string  `json:"goals"`
	Vibe            string    `json:"vibe"`
	Size            string    `json:"size"`
	Sunlight        string    `json:"sunlight"`
	Location        string    `json:"location"`
	WaterSource     string    `json:"waterSource"`
	Climate         string    `json:"climate"`
	Issues          string    `json:"issues"`
	PlantTypes      []string  `json:"plantTypes"`
	Experience      string    `json:"experience"`
	PreferredOption string    `json:"preferredOption"`
	AdditionalInfo  string    `json:"additionalInfo"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

// Normalize trims and lower-cases the choice ids and drops duplicate list
// entries.
func (a Answers) Normalize() Answers {
	id := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	list := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			if s = id(s); s != "" && !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
		return out
	}
	a.GardenType = id(a.GardenType)
	a.Vibe = id(a.Vibe)
	a.Size = id(a.Size)
	a.Sunlight = id(a.Sunlight)
	a.WaterSource = id(a.WaterSource)
	a.Climate = id(a.Climate)
	a.Experience = id(a.Experience)
	a.PreferredOption = id(a.PreferredOption)
	a.Goals = list(a.Goals)
	a.PlantTypes = list(a.PlantTypes)
	a.Location = strings.TrimSpace(a.Location)
	a.Issues = strings.TrimSpace(a.Issues)
	a.AdditionalInfo = strings.TrimSpace(a.AdditionalInfo)
	return a
}

// Validate checks every non-empty choice against q.
func (a Answers) Validate(q Questions) error {
	single := []struct {
		name    string
		value   string
		choices []Choice
	}{
		{"garden", a.GardenType, q.GardenType},
		{"vibe", a.Vibe, q.Vibe},
		{"size", a.Size, q.Size},
		{"sunlight", a.Sunlight, q.Sunlight},
		{"water", a.WaterSource, q.WaterSource},
		{"climate", a.Climate, q.Climate},
		{"experience", a.Experience, q.Experience},
		{"option", a.PreferredOption, q.PreferredOption},
	}
	for _, s := range single {
		if s.value != "" && !known(s.choices, s.value) {
			return fmt.Errorf("%w: %s %q", ErrInvalidAnswer, s.name, s.value)
		}
	}
	for _, g := range a.Goals {
		if !known(q.Goals, g) {
			return fmt.Errorf("%w: goal %q", ErrInvalidAnswer, g)
		}
	}
	for _, p := range a.PlantTypes {
		if !known(q.PlantTypes, p) {
			return fmt.Errorf("%w: plant type %q", ErrInvalidAnswer, p)
		}
	}
	return nil
}

func known(choices []Choice, id string) bool {
	for _, c := range choices {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Manager submits questionnaires and keeps the last answers in the store.
type Manager struct {
	store   storage.Store
	guide   *Guide
	clock   clock.Clock
	toaster notify.Toaster
	logger  *slog.Logger
	latency time.Duration
}

type Option func(*Manager)

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithLatency sets the artificial delay of Submit.
func WithLatency(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.latency = d
		}
	}
}

func New(store storage.Store, guide *Guide, toaster notify.Toaster, opts ...Option) *Manager {
	if guide == nil {
		guide = DefaultGuide()
	}
	if toaster == nil {
		toaster = notify.Discard
	}
	m := &Manager{
		store:   store,
		guide:   guide,
		clock:   clock.System{},
		toaster: toaster,
		logger:  slog.Default(),
		latency: 1500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "curation")
	return m
}

func (m *Manager) Questions() Questions {
	return m.guide.Questions
}

// Submit validates the answers, waits the simulated submit delay and
// returns the recommendations. The answers are saved under the garden
// preferences key; a failed save still returns the plan alongside a
// *storage.PersistError.
func (m *Manager) Submit(ctx context.Context, a Answers) (Plan, error) {
	a = a.Normalize()
	if err := a.Validate(m.guide.Questions); err != nil {
		m.toast(notify.LevelError, "Failed to generate recommendations. Please try again.", err.Error())
		return Plan{}, err
	}
	if err := m.clock.Sleep(ctx, m.latency); err != nil {
		return Plan{}, fmt.Errorf("curation: submit abandoned: %w", err)
	}

	a.SubmittedAt = m.clock.Now()
	plan := m.guide.Recommend(a)
	if err := storage.SaveJSON(ctx, m.store, storage.KeyGardenPreferences, a); err != nil {
		m.logger.Error("save garden preferences", "error", err)
		m.toast(notify.LevelError, "Could not save your garden preferences", err.Error())
		return plan, err
	}

	m.logger.Info("recommendations generated", "garden_type", a.GardenType, "plants", len(plan.Plants), "kits", len(plan.Kits))
	m.toast(notify.LevelSuccess, "Recommendations generated successfully!", "")
	return plan, nil
}

// Saved returns the last submitted answers.
func (m *Manager) Saved(ctx context.Context) (Answers, bool, error) {
	var a Answers
	found, err := storage.LoadJSON(ctx, m.store, storage.KeyGardenPreferences, &a)
	if err != nil || !found {
		return Answers{}, false, err
	}
	return a, true, nil
}

// Last rebuilds the plan for the saved answers.
func (m *Manager) Last(ctx context.Context) (Plan, bool, error) {
	a, ok, err := m.Saved(ctx)
	if err != nil || !ok {
		return Plan{}, false, err
	}
	return m.guide.Recommend(a), true, nil
}

func (m *Manager) toast(level notify.Level, title, body string) {
	m.toaster.Toast(notify.Toast{Level: level, Title: title, Body: body, At: m.clock.Now()})
}
