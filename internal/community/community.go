// Package community keeps the local gardening feed: posts shared from this
// device, sorted and filtered by region.
package community

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sandeepkv93/urbanroots/internal/clock"
	"github.com/sandeepkv93/urbanroots/internal/notify"
	"github.com/sandeepkv93/urbanroots/internal/storage"
)

const (
	MaxImages       = 4
	AnonymousAuthor = "Anonymous User"
)

var (
	ErrEmptyPost     = errors.New("community: post is empty")
	ErrTooManyImages = errors.New("community: too many images")
	ErrUnknownRegion = errors.New("community: unknown region")
	ErrUnknownTag    = errors.New("community: unknown tag")
	ErrPostNotFound  = errors.New("community: post not found")
	ErrUnknownSort   = errors.New("community: unknown sort order")
)

var regions = []string{
	"North India",
	"South India",
	"East India",
	"West India",
	"Central India",
	"Others",
}

var tags = []string{
	"Herbs",
	"Vegetables",
	"Fruits",
	"Flowers",
	"Balcony Setup",
	"Vertical Garden",
	"Troubleshooting",
	"Success Story",
	"Question",
}

func Regions() []string { return append([]string(nil), regions...) }
func Tags() []string    { return append([]string(nil), tags...) }

type Sort string

const (
	SortRecent    Sort = "recent"
	SortLiked     Sort = "liked"
	SortCommented Sort = "commented"
)

func (s Sort) IsValid() bool {
	switch s {
	case SortRecent, SortLiked, SortCommented:
		return true
	default:
		return false
	}
}

type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"userName"`
	Content   string    `json:"content"`
	Images    []string  `json:"images,omitempty"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"createdAt"`
	Region    string    `json:"region,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
}

// Initials are the first letters of the first two words of the author.
func (p Post) Initials() string {
	var b strings.Builder
	for _, w := range strings.Fields(p.Author) {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(r)
		if utf8.RuneCountInString(b.String()) == 2 {
			break
		}
	}
	return strings.ToUpper(b.String())
}

// Draft is what the share form collects.
type Draft struct {
	Author  string
	Content string
	Region  string
	Tags    []string
	Images  []string
}

// Validate resolves region and tags case-insensitively to their canonical
// spelling.
func (d Draft) Validate() (Draft, error) {
	d.Content = strings.TrimSpace(d.Content)
	if d.Content == "" {
		return d, ErrEmptyPost
	}
	if len(d.Images) > MaxImages {
		return d, fmt.Errorf("%w: %d of %d", ErrTooManyImages, len(d.Images), MaxImages)
	}
	if r := strings.TrimSpace(d.Region); r != "" {
		canon, ok := canonical(regions, r)
		if !ok {
			return d, fmt.Errorf("%w: %q", ErrUnknownRegion, r)
		}
		d.Region = canon
	}
	out := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		canon, ok := canonical(tags, strings.TrimSpace(t))
		if !ok {
			return d, fmt.Errorf("%w: %q", ErrUnknownTag, t)
		}
		if !slices.Contains(out, canon) {
			out = append(out, canon)
		}
	}
	d.Tags = out
	return d, nil
}

func canonical(set []string, v string) (string, bool) {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return s, true
		}
	}
	return "", false
}

type Manager struct {
	mu      sync.Mutex
	store   storage.Store
	clock   clock.Clock
	toaster notify.Toaster
	logger  *slog.Logger
	latency time.Duration
	posts   []Post
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

// WithLatency sets the artificial delay of Share.
func WithLatency(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.latency = d
		}
	}
}

func New(store storage.Store, toaster notify.Toaster, opts ...Option) *Manager {
	if toaster == nil {
		toaster = notify.Discard
	}
	m := &Manager{
		store:   store,
		clock:   clock.System{},
		toaster: toaster,
		logger:  slog.Default(),
		latency: time.Second,
		posts:   make([]Post, 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "community")
	return m
}

// Load reads the stored feed. Unreadable data is logged and treated as an
// empty feed.
func (m *Manager) Load(ctx context.Context) error {
	var stored []Post
	_, err := storage.LoadJSON(ctx, m.store, storage.KeyCommunityPosts, &stored)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = make([]Post, 0, len(stored))
	if err != nil {
		m.logger.Error("load posts", "error", err)
		return nil
	}
	for _, p := range stored {
		if p.ID == "" || strings.TrimSpace(p.Content) == "" {
			m.logger.Warn("dropping invalid post", "id", p.ID)
			continue
		}
		m.posts = append(m.posts, p)
	}
	return nil
}

// Share validates the draft, waits the simulated submit delay and puts the
// new post at the top of the feed.
func (m *Manager) Share(ctx context.Context, d Draft) (Post, error) {
	d, err := d.Validate()
	if err != nil {
		title := "Failed to share post. Please try again."
		switch {
		case errors.Is(err, ErrEmptyPost):
			title = "Please write something to share"
		case errors.Is(err, ErrTooManyImages):
			title = fmt.Sprintf("Maximum %d images allowed", MaxImages)
		}
		m.toast(notify.LevelError, title, "")
		return Post{}, err
	}
	if err := m.clock.Sleep(ctx, m.latency); err != nil {
		return Post{}, fmt.Errorf("community: share abandoned: %w", err)
	}

	author := strings.TrimSpace(d.Author)
	if author == "" {
		author = AnonymousAuthor
	}
	p := Post{
		ID:        uuid.NewString(),
		Author:    author,
		Content:   d.Content,
		Images:    d.Images,
		CreatedAt: m.clock.Now(),
		Region:    d.Region,
		Tags:      d.Tags,
	}

	m.mu.Lock()
	m.posts = append([]Post{p}, m.posts...)
	err = m.persistLocked(ctx)
	m.mu.Unlock()
	if err != nil {
		return p, err
	}
	m.logger.Info("post shared", "post_id", p.ID, "region", p.Region)
	m.toast(notify.LevelSuccess, "Post shared successfully!", "")
	return p, nil
}

// ToggleLike flips the like on a post and adjusts its count.
func (m *Manager) ToggleLike(ctx context.Context, id string) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.posts {
		if m.posts[i].ID != id {
			continue
		}
		p := &m.posts[i]
		if p.Liked {
			p.Likes--
		} else {
			p.Likes++
		}
		p.Liked = !p.Liked
		return *p, m.persistLocked(ctx)
	}
	return Post{}, fmt.Errorf("%w: %q", ErrPostNotFound, id)
}

// Feed returns the posts of region (all regions when empty) in the given
// order. Ties keep the newest-first insertion order.
func (m *Manager) Feed(region string, order Sort) ([]Post, error) {
	if order == "" {
		order = SortRecent
	}
	if !order.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSort, order)
	}
	if region != "" {
		canon, ok := canonical(regions, region)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
		}
		region = canon
	}

	m.mu.Lock()
	out := make([]Post, 0, len(m.posts))
	for _, p := range m.posts {
		if region == "" || p.Region == region {
			out = append(out, p)
		}
	}
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		switch order {
		case SortLiked:
			return out[i].Likes > out[j].Likes
		case SortCommented:
			return out[i].Comments > out[j].Comments
		default:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
	})
	return out, nil
}

func (m *Manager) Get(id string) (Post, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}

func (m *Manager) persistLocked(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, m.store, storage.KeyCommunityPosts, m.posts); err != nil {
		m.logger.Error("save posts", "error", err, "count", len(m.posts))
		m.toast(notify.LevelError, "Could not save posts", err.Error())
		return err
	}
	return nil
}

func (m *Manager) toast(level notify.Level, title, body string) {
	m.toaster.Toast(notify.Toast{Level: level, Title: title, Body: body, At: m.clock.Now()})
}

// RelativeTime renders the age of t as "5 minutes ago", "1 day ago" and so
// on. Months count as 30 days.
func RelativeTime(now, t time.Time) string {
	secs := int(now.Sub(t) / time.Second)
	if secs < 0 {
		secs = 0
	}
	if secs < 60 {
		return fmt.Sprintf("%d seconds ago", secs)
	}
	steps := []struct {
		unit string
		div  int
		max  int
	}{
		{"minute", 60, 60},
		{"hour", 60, 24},
		{"day", 24, 30},
		{"month", 30, 12},
		{"year", 12, 0},
	}
	n := secs
	for _, s := range steps {
		n /= s.div
		if s.max == 0 || n < s.max {
			return plural(n, s.unit) + " ago"
		}
	}
	return plural(n, "year") + " ago"
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
