package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleShopKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "a", "enter":
		m.addSelectedToCart()
	}
	return m, nil
}

func (m *Model) addSelectedToCart() {
	item, ok := m.currentShopItem()
	if !ok {
		m.Status = StatusBar{Text: "no item selected", IsError: true}
		return
	}
	if !item.InStock {
		m.Status = StatusBar{Text: fmt.Sprintf("%s is out of stock", item.Name), IsError: true}
		return
	}
	if err := m.deps.Cart.Add(m.ctx, item.ID, 1); err != nil {
		m.fail(err)
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("added %s to cart", item.Name)}
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.deps.Logger.Debug("action failed", "view", m.CurrentView, "error", err)
}
