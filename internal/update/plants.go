package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/urbanroots/internal/model"
	"github.com/sandeepkv93/urbanroots/internal/plants"
)

func (m Model) handlePlantsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "tab":
		m.cycleTab(1)
	case "shift+tab":
		m.cycleTab(-1)
	case "r":
		p, ok := m.currentPlant()
		if !ok {
			return m, nil
		}
		if _, err := m.deps.Reminders.Create(m.ctx, p.ID, p.Name, p.Type, model.ReminderKindWater); err != nil {
			m.fail(err)
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("watering reminder set for %s", p.Name)}
	case "x":
		p, ok := m.currentPlant()
		if !ok {
			return m, nil
		}
		if err := m.deps.Plants.Delete(m.ctx, p.ID); err != nil {
			m.fail(err)
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("removed %s", p.Name)}
	}
	return m, nil
}

func (m *Model) cycleTab(step int) {
	tabs := plants.Tabs()
	idx := 0
	for i, t := range tabs {
		if t == m.Plants.Tab {
			idx = i
			break
		}
	}
	idx = (idx + step + len(tabs)) % len(tabs)
	m.Plants.Tab = tabs[idx]
	m.Plants.Cursor = 0
	m.Status = StatusBar{Text: fmt.Sprintf("showing %s", m.Plants.Tab)}
}

func (m Model) reminderCounts() map[string]int {
	out := make(map[string]int)
	if m.deps.Reminders == nil {
		return out
	}
	for _, r := range m.deps.Reminders.List() {
		out[r.PlantID]++
	}
	return out
}
