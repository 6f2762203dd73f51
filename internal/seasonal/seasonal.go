// Package seasonal serves gardening tips ordered for the current Indian
// season.
package seasonal

import (
	"context"
	"embed"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/urbanroots/internal/clock"
	"github.com/sandeepkv93/urbanroots/internal/storage"
)

//go:embed data/tips.yaml
var dataFiles embed.FS

// RefreshInterval is how long a tip ordering is kept before reshuffling.
const RefreshInterval = 48 * time.Hour

type Season string

const (
	SeasonSpring  Season = "spring"
	SeasonSummer  Season = "summer"
	SeasonMonsoon Season = "monsoon"
	SeasonAutumn  Season = "autumn"
	SeasonWinter  Season = "winter"
)

type Category string

const (
	CategorySeasonal Category = "seasonal"
	CategoryDIY      Category = "diy"
	CategoryEco      Category = "eco"
)

type Tip struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Image       string   `yaml:"image" json:"image"`
	Category    Category `yaml:"category" json:"category"`
	Season      Season   `yaml:"season,omitempty" json:"season,omitempty"`
}

// Summary shortens the description for list views.
func (t Tip) Summary(max int) string {
	r := []rune(t.Description)
	if max <= 0 || len(r) <= max {
		return t.Description
	}
	return string(r[:max]) + "..."
}

func SeasonFor(m time.Month) Season {
	switch m {
	case time.March, time.April:
		return SeasonSpring
	case time.May, time.June:
		return SeasonSummer
	case time.July, time.August, time.September:
		return SeasonMonsoon
	case time.October, time.November:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

func All() ([]Tip, error) {
	raw, err := dataFiles.ReadFile("data/tips.yaml")
	if err != nil {
		return nil, err
	}
	var tips []Tip
	if err := yaml.Unmarshal(raw, &tips); err != nil {
		return nil, fmt.Errorf("decode tips: %w", err)
	}
	return tips, nil
}

// Ordered puts tips for the season of now first and keeps the rest in
// their given order.
func Ordered(tips []Tip, now time.Time) []Tip {
	season := SeasonFor(now.Month())
	out := append([]Tip(nil), tips...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Season == season && out[j].Season != season
	})
	return out
}

// Refresher decides when the tip ordering is stale, using a timestamp kept
// in the store.
type Refresher struct {
	store storage.Store
	clock clock.Clock
	rng   *rand.Rand
}

func NewRefresher(store storage.Store, c clock.Clock, seed int64) *Refresher {
	if c == nil {
		c = clock.System{}
	}
	return &Refresher{store: store, clock: c, rng: rand.New(rand.NewSource(seed))}
}

// Due reports whether the ordering is older than RefreshInterval. When it
// is, the timestamp is renewed before returning.
func (r *Refresher) Due(ctx context.Context) (bool, error) {
	now := r.clock.Now()
	var lastMillis int64
	found, err := storage.LoadJSON(ctx, r.store, storage.KeySeasonalRefresh, &lastMillis)
	if err != nil {
		return false, err
	}
	if found && now.Sub(time.UnixMilli(lastMillis)) <= RefreshInterval {
		return false, nil
	}
	if err := storage.SaveJSON(ctx, r.store, storage.KeySeasonalRefresh, now.UnixMilli()); err != nil {
		return false, err
	}
	return true, nil
}

// Tips returns the season-ordered tips, reshuffled when a refresh is due.
func (r *Refresher) Tips(ctx context.Context) ([]Tip, error) {
	tips, err := All()
	if err != nil {
		return nil, err
	}
	tips = Ordered(tips, r.clock.Now())
	due, err := r.Due(ctx)
	if err != nil {
		return tips, err
	}
	if due {
		r.rng.Shuffle(len(tips), func(i, j int) {
			tips[i], tips[j] = tips[j], tips[i]
		})
	}
	return tips, nil
}
