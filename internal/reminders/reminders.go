// Package reminders owns the plant care schedule: creation from care
// defaults, completion, enable toggling, due checks and the weather-biased
// view of upcoming watering.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sandeepkv93/urbanroots/internal/catalog"
	"github.com/sandeepkv93/urbanroots/internal/clock"
	"github.com/sandeepkv93/urbanroots/internal/model"
	"github.com/sandeepkv93/urbanroots/internal/notify"
	"github.com/sandeepkv93/urbanroots/internal/storage"
	"github.com/sandeepkv93/urbanroots/internal/weather"
)

var (
	ErrReminderNotFound = errors.New("reminders: reminder not found")
	ErrInvalidPlant     = errors.New("reminders: plant id and name are required")
	ErrReminderDisabled = errors.New("reminders: reminder is disabled")
)

type Manager struct {
	mu        sync.Mutex
	store     storage.Store
	defaults  catalog.CareDefaults
	clock     clock.Clock
	toaster   notify.Toaster
	notifier  notify.Notifier
	logger    *slog.Logger
	reminders []model.Reminder
}

type Option func(*Manager)

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func New(store storage.Store, defaults catalog.CareDefaults, c clock.Clock, toaster notify.Toaster, notifier notify.Notifier, opts ...Option) *Manager {
	if c == nil {
		c = clock.System{}
	}
	if toaster == nil {
		toaster = notify.Discard
	}
	if notifier == nil {
		notifier = notify.Denied{}
	}
	m := &Manager{
		store:     store,
		defaults:  defaults,
		clock:     c,
		toaster:   toaster,
		notifier:  notifier,
		logger:    slog.Default(),
		reminders: make([]model.Reminder, 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "reminders")
	return m
}

// Load replaces the in-memory schedule with the stored one. Unreadable
// data is logged and treated as an empty schedule.
func (m *Manager) Load(ctx context.Context) error {
	stored, err := m.readStored(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders = make([]model.Reminder, 0, len(stored))
	if err != nil {
		m.logger.Error("load reminders", "error", err)
		return nil
	}
	for _, r := range stored {
		if verr := r.Validate(); verr != nil {
			m.logger.Warn("dropping invalid reminder", "id", r.ID, "error", verr)
			continue
		}
		m.reminders = append(m.reminders, r)
	}
	return nil
}

// Create schedules a reminder of kind for a plant. Frequency and notes come
// from the care defaults for plantType and the first occurrence is due one
// day from now.
func (m *Manager) Create(ctx context.Context, plantID, plantName, plantType string, kind model.ReminderKind) (model.Reminder, error) {
	plantID = strings.TrimSpace(plantID)
	plantName = strings.TrimSpace(plantName)
	if plantID == "" || plantName == "" {
		return model.Reminder{}, ErrInvalidPlant
	}
	if !kind.IsValid() {
		return model.Reminder{}, fmt.Errorf("%w: %q", model.ErrInvalidReminderKind, kind)
	}
	freq, notes := m.defaults.Lookup(plantType, kind)
	now := m.clock.Now()
	rem := model.Reminder{
		ID:            uuid.NewString(),
		PlantID:       plantID,
		PlantName:     plantName,
		Kind:          kind,
		FrequencyDays: freq,
		NextDue:       now.Add(model.Day),
		Enabled:       true,
		Notes:         notes,
	}

	m.mu.Lock()
	m.reminders = append(m.reminders, rem)
	err := m.persistLocked(ctx)
	m.mu.Unlock()

	m.logger.Info("reminder created", "id", rem.ID, "plant", plantName, "kind", kind, "frequency_days", freq)
	if err != nil {
		return rem, err
	}
	m.toast(notify.LevelSuccess, fmt.Sprintf("%s reminder set for %s", kind.Label(), plantName), fmt.Sprintf("Every %d days", freq))
	return rem, nil
}

func (m *Manager) SetEnabled(ctx context.Context, id string, enabled bool) error {
	_, err := m.mutate(ctx, id, func(r *model.Reminder) error {
		r.Enabled = enabled
		return nil
	})
	if err != nil {
		return err
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	m.toast(notify.LevelInfo, "Reminder "+state, "")
	return nil
}

// Complete stamps the reminder as done now and pushes the next occurrence
// exactly FrequencyDays days out. Disabled reminders are rejected with
// ErrReminderDisabled.
func (m *Manager) Complete(ctx context.Context, id string) (model.Reminder, error) {
	now := m.clock.Now()
	updated, err := m.mutate(ctx, id, func(r *model.Reminder) error {
		if !r.Enabled {
			return fmt.Errorf("%w: enable it before marking it done", ErrReminderDisabled)
		}
		*r = r.CompletedAt(now)
		return nil
	})
	if err != nil {
		return updated, err
	}
	m.toast(notify.LevelSuccess,
		fmt.Sprintf("%s completed for %s!", updated.Kind.Label(), updated.PlantName),
		fmt.Sprintf("Next reminder in %d days", updated.FrequencyDays))
	return updated, nil
}

// Suggestions lists the care defaults for a plant type, the reminders a
// new plant of that type would usually get.
func (m *Manager) Suggestions(plantType string) []catalog.CareDefault {
	return m.defaults.Suggested(plantType)
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	idx := m.indexOf(id)
	if idx < 0 {
		m.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrReminderNotFound, id)
	}
	m.reminders = append(m.reminders[:idx:idx], m.reminders[idx+1:]...)
	err := m.persistLocked(ctx)
	m.mu.Unlock()

	if err != nil {
		return err
	}
	m.toast(notify.LevelInfo, "Reminder deleted", "")
	return nil
}

// DeleteForPlant drops every reminder owned by plantID and reports how many
// were removed.
func (m *Manager) DeleteForPlant(ctx context.Context, plantID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := make([]model.Reminder, 0, len(m.reminders))
	for _, r := range m.reminders {
		if r.PlantID != plantID {
			kept = append(kept, r)
		}
	}
	removed := len(m.reminders) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	m.reminders = kept
	return removed, m.persistLocked(ctx)
}

// List returns every reminder ordered by next due time.
func (m *Manager) List() []model.Reminder {
	m.mu.Lock()
	out := append([]model.Reminder(nil), m.reminders...)
	m.mu.Unlock()
	sortByNextDue(out)
	return out
}

func (m *Manager) Get(id string) (model.Reminder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(id)
	if idx < 0 {
		return model.Reminder{}, false
	}
	return m.reminders[idx], true
}

// Visible applies the panel filter at the current time.
func (m *Manager) Visible(showAll bool) []model.Reminder {
	return Visible(m.List(), m.clock.Now(), showAll)
}

// Due returns the in-memory reminders due now.
func (m *Manager) Due() []model.Reminder {
	return DueReminders(m.List(), m.clock.Now())
}

// CheckDue evaluates the stored schedule, which is never weather adjusted,
// and alerts the user about every due reminder. Platform notifications are
// only attempted when permission was granted; the toast is always shown.
func (m *Manager) CheckDue(ctx context.Context) ([]model.Reminder, error) {
	stored, err := m.readStored(ctx)
	if err != nil {
		return nil, err
	}
	due := DueReminders(stored, m.clock.Now())
	sortByNextDue(due)
	if len(due) == 0 {
		return due, nil
	}

	for _, r := range due {
		msg := notify.Notification{Title: dueTitle(r), Body: dueBody(r)}
		if err := notify.Send(ctx, m.notifier, msg); err != nil {
			m.logger.Warn("platform notification failed", "id", r.ID, "error", err)
		}
	}
	if len(due) == 1 {
		m.toast(notify.LevelInfo, dueTitle(due[0]), dueBody(due[0]))
	} else {
		m.toast(notify.LevelInfo, fmt.Sprintf("%d plants need attention!", len(due)), "You have multiple plant care tasks due.")
	}
	m.logger.Info("reminders due", "count", len(due))
	return due, nil
}

// RequestPermission asks for platform notification permission unless the
// user already answered.
func (m *Manager) RequestPermission(ctx context.Context) notify.Permission {
	if p := m.notifier.Permission(); p != notify.PermissionDefault {
		return p
	}
	p, err := m.notifier.RequestPermission(ctx)
	if err != nil {
		m.logger.Warn("request notification permission", "error", err)
		return notify.PermissionDenied
	}
	return p
}

// Adjusted fetches the weather for location and returns the schedule with
// watering shifted for it. The stored schedule is not changed.
func (m *Manager) Adjusted(ctx context.Context, provider weather.Provider, location string) ([]model.Reminder, model.WeatherSnapshot, error) {
	snap, err := provider.Current(ctx, location)
	if err != nil {
		m.logger.Warn("weather unavailable", "provider", provider.Name(), "error", err)
		return m.List(), model.WeatherSnapshot{}, err
	}
	adjusted := AdjustForWeather(m.List(), snap)
	sortByNextDue(adjusted)
	return adjusted, snap, nil
}

func (m *Manager) readStored(ctx context.Context) ([]model.Reminder, error) {
	var stored []model.Reminder
	if _, err := storage.LoadJSON(ctx, m.store, storage.KeyReminders, &stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// mutate applies fn to the reminder in place and persists. An error from fn
// leaves the reminder untouched.
func (m *Manager) mutate(ctx context.Context, id string, fn func(*model.Reminder) error) (model.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(id)
	if idx < 0 {
		return model.Reminder{}, fmt.Errorf("%w: %q", ErrReminderNotFound, id)
	}
	r := m.reminders[idx]
	if err := fn(&r); err != nil {
		return m.reminders[idx], err
	}
	m.reminders[idx] = r
	return m.reminders[idx], m.persistLocked(ctx)
}

func (m *Manager) indexOf(id string) int {
	for i, r := range m.reminders {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) persistLocked(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, m.store, storage.KeyReminders, m.reminders); err != nil {
		m.logger.Error("save reminders", "error", err, "count", len(m.reminders))
		m.toast(notify.LevelError, "Could not save reminders", err.Error())
		return err
	}
	return nil
}

func (m *Manager) toast(level notify.Level, title, body string) {
	m.toaster.Toast(notify.Toast{Level: level, Title: title, Body: body, At: m.clock.Now()})
}

func dueTitle(r model.Reminder) string {
	return "Time to " + strings.ToLower(r.Kind.Label())
}

func dueBody(r model.Reminder) string {
	return fmt.Sprintf("Your %s needs attention!", r.PlantName)
}
