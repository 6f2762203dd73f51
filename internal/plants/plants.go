// Package plants keeps the user's plant collection.
package plants

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/urbanroots/internal/catalog"
	"github.com/sandeepkv93/urbanroots/internal/clock"
	"github.com/sandeepkv93/urbanroots/internal/model"
	"github.com/sandeepkv93/urbanroots/internal/notify"
	"github.com/sandeepkv93/urbanroots/internal/storage"
)

var (
	ErrPlantNotFound = errors.New("plants: plant not found")
	ErrMissingFields = errors.New("plants: please fill in all required fields")
	ErrUnknownTab    = errors.New("plants: unknown tab")
)

const fallbackImage = "https://images.unsplash.com/photo-1520412099551-62b6bafeb5bb?q=80&w=500&auto=format&fit=crop"

var typeImages = map[string]string{
	"Herb":         "https://cdn.shopify.com/s/files/1/0573/3993/6868/t/6/assets/holy-basil-herb1-1667586689480.jpg?v=1667586690",
	"Succulent":    "https://plantlife.ie/wp-content/uploads/2022/10/alar1535__000000.jpg",
	"Indoor Plant": "https://images.unsplash.com/photo-1593691509543-c55fb32d8de5?q=80&w=500&auto=format&fit=crop",
	"Vegetable":    "https://images.unsplash.com/photo-1592841200221-a4f8cad509a4?q=80&w=500&auto=format&fit=crop",
	"Medicinal":    "https://plantlife.ie/wp-content/uploads/2022/10/alar1535__000000.jpg",
	"Fruit":        "https://images.unsplash.com/photo-1572364709125-9a4557550efb?q=80&w=500&auto=format&fit=crop",
}

// Tab groups plant types the way the collection screen filters them.
type Tab string

const (
	TabAll        Tab = "all"
	TabHerbs      Tab = "herbs"
	TabIndoors    Tab = "indoors"
	TabVegetables Tab = "vegetables"
	TabMedicinal  Tab = "medicinal"
)

var tabTypes = map[Tab][]string{
	TabHerbs:      {"Herb"},
	TabIndoors:    {"Indoor Plant", "Succulent"},
	TabVegetables: {"Vegetable", "Fruit"},
	TabMedicinal:  {"Medicinal"},
}

func Tabs() []Tab {
	return []Tab{TabAll, TabHerbs, TabIndoors, TabVegetables, TabMedicinal}
}

func (t Tab) IsValid() bool {
	if t == TabAll {
		return true
	}
	_, ok := tabTypes[t]
	return ok
}

// ReminderPruner drops the reminders of a deleted plant.
type ReminderPruner interface {
	DeleteForPlant(ctx context.Context, plantID string) (int, error)
}

type Input struct {
	Name           string
	Type           string
	Image          string
	WaterFrequency string
	Sunlight       string
}

func (in Input) Validate() error {
	for _, v := range []string{in.Name, in.Type, in.WaterFrequency, in.Sunlight} {
		if strings.TrimSpace(v) == "" {
			return ErrMissingFields
		}
	}
	return nil
}

type Manager struct {
	mu        sync.Mutex
	store     storage.Store
	reminders ReminderPruner
	clock     clock.Clock
	toaster   notify.Toaster
	logger    *slog.Logger
	latency   time.Duration
	plants    []model.Plant
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

// WithLatency sets the artificial delay of Add.
func WithLatency(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.latency = d
		}
	}
}

func New(store storage.Store, reminders ReminderPruner, toaster notify.Toaster, opts ...Option) *Manager {
	if toaster == nil {
		toaster = notify.Discard
	}
	m := &Manager{
		store:     store,
		reminders: reminders,
		clock:     clock.System{},
		toaster:   toaster,
		logger:    slog.Default(),
		latency:   time.Second,
		plants:    make([]model.Plant, 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "plants")
	return m
}

// Load reads the collection. On first run the sample plants are stored so
// the collection is never empty to begin with.
func (m *Manager) Load(ctx context.Context) error {
	var stored []model.Plant
	found, err := storage.LoadJSON(ctx, m.store, storage.KeyPlants, &stored)
	if err != nil {
		m.logger.Error("load plants", "error", err)
		found = false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !found {
		samples, serr := catalog.SamplePlants()
		if serr != nil {
			return fmt.Errorf("plants: seed samples: %w", serr)
		}
		m.plants = samples
		return m.persistLocked(ctx)
	}
	m.plants = make([]model.Plant, 0, len(stored))
	for _, p := range stored {
		if verr := p.Validate(); verr != nil {
			m.logger.Warn("dropping invalid plant", "id", p.ID, "error", verr)
			continue
		}
		m.plants = append(m.plants, p)
	}
	return nil
}

// Add waits the simulated submit delay, then stores the new plant dated
// today.
func (m *Manager) Add(ctx context.Context, in Input) (model.Plant, error) {
	if err := in.Validate(); err != nil {
		m.toast(notify.LevelError, "Please fill in all required fields", "")
		return model.Plant{}, err
	}
	if err := m.clock.Sleep(ctx, m.latency); err != nil {
		return model.Plant{}, fmt.Errorf("plants: add abandoned: %w", err)
	}

	plantType := strings.TrimSpace(in.Type)
	image := strings.TrimSpace(in.Image)
	if image == "" {
		image = DefaultImage(plantType)
	}
	p := model.Plant{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(in.Name),
		Type:           plantType,
		Image:          image,
		WaterFrequency: strings.TrimSpace(in.WaterFrequency),
		Sunlight:       strings.TrimSpace(in.Sunlight),
		DateAdded:      m.clock.Now().Format(model.DateLayout),
	}

	m.mu.Lock()
	m.plants = append(m.plants, p)
	err := m.persistLocked(ctx)
	m.mu.Unlock()

	if err != nil {
		m.toast(notify.LevelError, "Failed to add plant. Please try again.", "")
		return p, err
	}
	m.logger.Info("plant added", "id", p.ID, "name", p.Name, "type", p.Type)
	m.toast(notify.LevelSuccess, fmt.Sprintf("%s added to your plants!", p.Name), "")
	return p, nil
}

// Delete removes a plant and every reminder attached to it.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	idx := m.indexOf(id)
	if idx < 0 {
		m.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrPlantNotFound, id)
	}
	removed := m.plants[idx]
	m.plants = append(m.plants[:idx:idx], m.plants[idx+1:]...)
	err := m.persistLocked(ctx)
	m.mu.Unlock()

	if err != nil {
		m.toast(notify.LevelError, "Failed to delete plant. Please try again.", "")
		return err
	}
	if m.reminders != nil {
		n, rerr := m.reminders.DeleteForPlant(ctx, id)
		if rerr != nil {
			return fmt.Errorf("plants: drop reminders for %s: %w", id, rerr)
		}
		m.logger.Info("plant deleted", "id", id, "reminders_removed", n)
	}
	m.toast(notify.LevelSuccess, fmt.Sprintf("%s has been removed from your plants", removed.Name), "")
	return nil
}

func (m *Manager) List() []model.Plant {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Plant(nil), m.plants...)
}

func (m *Manager) Get(id string) (model.Plant, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(id)
	if idx < 0 {
		return model.Plant{}, false
	}
	return m.plants[idx], true
}

// Find matches a plant by id, then by case-insensitive name.
func (m *Manager) Find(ref string) (model.Plant, bool) {
	ref = strings.TrimSpace(ref)
	if p, ok := m.Get(ref); ok {
		return p, true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.plants {
		if strings.EqualFold(p.Name, ref) {
			return p, true
		}
	}
	return model.Plant{}, false
}

func (m *Manager) ByTab(tab Tab) ([]model.Plant, error) {
	if !tab.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	all := m.List()
	if tab == TabAll {
		return all, nil
	}
	types := tabTypes[tab]
	out := make([]model.Plant, 0, len(all))
	for _, p := range all {
		for _, t := range types {
			if p.Type == t {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

// DefaultImage picks a stock picture for a plant type.
func DefaultImage(plantType string) string {
	if img, ok := typeImages[plantType]; ok {
		return img
	}
	return fallbackImage
}

func (m *Manager) indexOf(id string) int {
	for i, p := range m.plants {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) persistLocked(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, m.store, storage.KeyPlants, m.plants); err != nil {
		m.logger.Error("save plants", "error", err, "count", len(m.plants))
		return err
	}
	return nil
}

func (m *Manager) toast(level notify.Level, title, body string) {
	m.toaster.Toast(notify.Toast{Level: level, Title: title, Body: body, At: m.clock.Now()})
}
