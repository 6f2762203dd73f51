package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sandeepkv93/urbanroots/internal/model"
	"github.com/sandeepkv93/urbanroots/internal/notify"
	"github.com/sandeepkv93/urbanroots/internal/storage"
)

var (
	FreeDeliveryThreshold = decimal.NewFromInt(499)
	DeliveryFee           = decimal.NewFromInt(99)
)

type Summary struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Total       decimal.Decimal `json:"total"`
	// FreeDeliveryGap is how much more must be added to qualify for free
	// delivery; zero once it applies.
	FreeDeliveryGap decimal.Decimal `json:"freeDeliveryGap"`
}

func (s Summary) FreeDelivery() bool {
	return s.DeliveryFee.IsZero()
}

// Summarize prices a set of lines. Delivery is free above the threshold
// and for an empty cart.
func Summarize(lines []model.CartLine) Summary {
	subtotal := totalOf(lines)
	out := Summary{
		Subtotal:        subtotal,
		DeliveryFee:     decimal.Zero,
		FreeDeliveryGap: decimal.Zero,
	}
	if len(lines) > 0 && !subtotal.GreaterThan(FreeDeliveryThreshold) {
		out.DeliveryFee = DeliveryFee
		out.FreeDeliveryGap = FreeDeliveryThreshold.Sub(subtotal)
	}
	out.Total = subtotal.Add(out.DeliveryFee)
	return out
}

func (m *Manager) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Summarize(m.lines)
}

type Order struct {
	ID       string           `json:"id"`
	PlacedAt time.Time        `json:"placedAt"`
	Lines    []model.CartLine `json:"lines"`
	Summary  Summary          `json:"summary"`
}

// Checkout simulates submitting the current cart. After the artificial
// delay the order is recorded and the ordered quantities leave the cart;
// anything added while the submit was pending stays.
func (m *Manager) Checkout(ctx context.Context) (Order, error) {
	m.mu.Lock()
	lines := append([]model.CartLine(nil), m.lines...)
	m.mu.Unlock()
	if len(lines) == 0 {
		m.toast(notify.LevelError, "Your cart is empty", "")
		return Order{}, ErrEmptyCart
	}

	if err := m.clock.Sleep(ctx, m.checkoutLatency); err != nil {
		return Order{}, fmt.Errorf("cart: checkout abandoned: %w", err)
	}

	order := Order{
		ID:       uuid.NewString(),
		PlacedAt: m.clock.Now(),
		Lines:    lines,
		Summary:  Summarize(lines),
	}

	orders, err := m.Orders(ctx)
	if err != nil {
		return Order{}, err
	}
	orders = append(orders, order)
	if err := storage.SaveJSON(ctx, m.store, storage.KeyOrders, orders); err != nil {
		m.logger.Error("save order", "error", err, "order_id", order.ID)
		m.toast(notify.LevelError, "Failed to place order. Please try again.", "")
		return Order{}, err
	}

	m.mu.Lock()
	m.lines = subtractLines(m.lines, lines)
	err = m.persistLocked(ctx)
	m.mu.Unlock()

	m.logger.Info("order placed", "order_id", order.ID, "total", order.Summary.Total.StringFixed(2))
	m.toast(notify.LevelSuccess, "Order placed", fmt.Sprintf("Order %s total ₹%s", shortID(order.ID), order.Summary.Total.StringFixed(2)))
	return order, err
}

// Orders returns the order history, oldest first.
func (m *Manager) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if _, err := storage.LoadJSON(ctx, m.store, storage.KeyOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func subtractLines(current, ordered []model.CartLine) []model.CartLine {
	orderedQty := make(map[string]int, len(ordered))
	for _, line := range ordered {
		orderedQty[line.ItemID] += line.Quantity
	}
	out := make([]model.CartLine, 0, len(current))
	for _, line := range current {
		line.Quantity -= orderedQty[line.ItemID]
		if line.Quantity > 0 {
			out = append(out, line)
		}
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
