// Package cart owns the shopping cart: one line per catalog item, written
// through to the store after every change.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sandeepkv93/urbanroots/internal/catalog"
	"github.com/sandeepkv93/urbanroots/internal/clock"
	"github.com/sandeepkv93/urbanroots/internal/model"
	"github.com/sandeepkv93/urbanroots/internal/notify"
	"github.com/sandeepkv93/urbanroots/internal/storage"
)

var (
	ErrItemNotFound = errors.New("cart: item not found")
	ErrEmptyCart    = errors.New("cart: cart is empty")
)

type Manager struct {
	mu              sync.Mutex
	store           storage.Store
	catalog         catalog.Resolver
	toaster         notify.Toaster
	clock           clock.Clock
	logger          *slog.Logger
	checkoutLatency time.Duration
	lines           []model.CartLine
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

// WithCheckoutLatency sets the artificial delay of Checkout.
func WithCheckoutLatency(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.checkoutLatency = d
		}
	}
}

func New(store storage.Store, resolver catalog.Resolver, toaster notify.Toaster, opts ...Option) *Manager {
	if toaster == nil {
		toaster = notify.Discard
	}
	m := &Manager{
		store:           store,
		catalog:         resolver,
		toaster:         toaster,
		clock:           clock.System{},
		logger:          slog.Default(),
		checkoutLatency: 1500 * time.Millisecond,
		lines:           make([]model.CartLine, 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "cart")
	return m
}

// Load replaces the in-memory cart with the persisted one. Unreadable data
// is logged and treated as an empty cart.
func (m *Manager) Load(ctx context.Context) error {
	var stored []model.CartLine
	_, err := storage.LoadJSON(ctx, m.store, storage.KeyCart, &stored)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = make([]model.CartLine, 0, len(stored))
	if err != nil {
		m.logger.Error("load cart", "error", err)
		return nil
	}
	seen := make(map[string]int, len(stored))
	for _, line := range stored {
		if line.Validate() != nil {
			m.logger.Warn("dropping invalid cart line", "item_id", line.ItemID, "quantity", line.Quantity)
			continue
		}
		if idx, dup := seen[line.ItemID]; dup {
			m.lines[idx].Quantity += line.Quantity
			continue
		}
		seen[line.ItemID] = len(m.lines)
		m.lines = append(m.lines, line)
	}
	return nil
}

// Add puts quantity units of itemID in the cart, merging with an existing
// line for the same item.
func (m *Manager) Add(ctx context.Context, itemID string, quantity int) error {
	item, ok := m.catalog.Resolve(itemID)
	if !ok {
		m.toast(notify.LevelError, "Product not found", "")
		return fmt.Errorf("%w: %q", ErrItemNotFound, itemID)
	}
	if quantity < 1 {
		m.toast(notify.LevelError, "Quantity must be at least 1", "")
		return fmt.Errorf("%w: %d", model.ErrInvalidQuantity, quantity)
	}

	m.mu.Lock()
	if idx := m.indexOf(item.ID); idx >= 0 {
		m.lines[idx].Quantity += quantity
	} else {
		m.lines = append(m.lines, model.NewCartLine(item, quantity))
	}
	err := m.persistLocked(ctx)
	m.mu.Unlock()

	if err != nil {
		return err
	}
	m.toast(notify.LevelSuccess, fmt.Sprintf("%s added to cart", item.Name), "")
	return nil
}

// UpdateQuantity sets an existing line's quantity. Zero or negative removes
// the line. Unknown items are ignored.
func (m *Manager) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity <= 0 {
		return m.Remove(ctx, itemID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(itemID)
	if idx < 0 {
		return nil
	}
	m.lines[idx].Quantity = quantity
	return m.persistLocked(ctx)
}

func (m *Manager) Remove(ctx context.Context, itemID string) error {
	m.mu.Lock()
	idx := m.indexOf(itemID)
	if idx < 0 {
		m.mu.Unlock()
		return nil
	}
	removed := m.lines[idx]
	m.lines = append(m.lines[:idx:idx], m.lines[idx+1:]...)
	err := m.persistLocked(ctx)
	m.mu.Unlock()

	if err != nil {
		return err
	}
	m.toast(notify.LevelSuccess, fmt.Sprintf("%s removed from cart", removed.Name), "")
	return nil
}

func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.lines = make([]model.CartLine, 0)
	err := m.persistLocked(ctx)
	m.mu.Unlock()

	if err != nil {
		return err
	}
	m.toast(notify.LevelSuccess, "Cart cleared", "")
	return nil
}

// Total is the sum of price times quantity over every line.
func (m *Manager) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return totalOf(m.lines)
}

// ItemCount is the number of units across all lines.
func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, line := range m.lines {
		n += line.Quantity
	}
	return n
}

func (m *Manager) Lines() []model.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.CartLine(nil), m.lines...)
}

func (m *Manager) Line(itemID string) (model.CartLine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(itemID)
	if idx < 0 {
		return model.CartLine{}, false
	}
	return m.lines[idx], true
}

func (m *Manager) indexOf(itemID string) int {
	for i, line := range m.lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}

// persistLocked writes the whole cart. The in-memory cart stays as is when
// the write fails.
func (m *Manager) persistLocked(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, m.store, storage.KeyCart, m.lines); err != nil {
		m.logger.Error("save cart", "error", err, "lines", len(m.lines))
		m.toast(notify.LevelError, "Could not save cart", err.Error())
		return err
	}
	m.logger.Debug("cart saved", "lines", len(m.lines))
	return nil
}

func (m *Manager) toast(level notify.Level, title, body string) {
	m.toaster.Toast(notify.Toast{Level: level, Title: title, Body: body, At: m.clock.Now()})
}

func totalOf(lines []model.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}
