package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleCartKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "+", "=":
		m.stepQuantity(1)
	case "-":
		m.stepQuantity(-1)
	case "x":
		line, ok := m.currentCartLine()
		if !ok {
			return m, nil
		}
		if err := m.deps.Cart.Remove(m.ctx, line.ItemID); err != nil {
			m.fail(err)
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("removed %s", line.Name)}
	case "C":
		if err := m.deps.Cart.Clear(m.ctx); err != nil {
			m.fail(err)
			return m, nil
		}
		m.Status = StatusBar{Text: "cart cleared"}
	case "o":
		return m.startCheckout()
	}
	return m, nil
}

// stepQuantity moves the selected line's quantity by delta. Reaching zero
// removes the line.
func (m *Model) stepQuantity(delta int) {
	line, ok := m.currentCartLine()
	if !ok {
		return
	}
	qty := line.Quantity + delta
	if err := m.deps.Cart.UpdateQuantity(m.ctx, line.ItemID, qty); err != nil {
		m.fail(err)
		return
	}
	if qty <= 0 {
		m.Status = StatusBar{Text: fmt.Sprintf("removed %s", line.Name)}
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s x%d", line.Name, qty)}
}

func (m Model) startCheckout() (Model, tea.Cmd) {
	if m.Cart.Pending {
		return m, nil
	}
	if m.deps.Cart.ItemCount() == 0 {
		m.Status = StatusBar{Text: "cart is empty", IsError: true}
		return m, nil
	}
	m.Cart.Pending = true
	m.Status = StatusBar{Text: "placing order..."}
	return m, tea.Batch(m.busySpinner.Tick, m.checkoutCmd())
}

func (m Model) onCheckoutDone(msg CheckoutDoneMsg) Model {
	m.Cart.Pending = false
	if msg.Err != nil {
		m.fail(msg.Err)
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("order placed: ₹%s", msg.Order.Summary.Total.StringFixed(2))}
	return m
}
