package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleRemindersKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "c":
		r, ok := m.currentReminder()
		if !ok {
			return m, nil
		}
		updated, err := m.deps.Reminders.Complete(m.ctx, r.ID)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s done for %s, next in %d days", updated.Kind.Label(), updated.PlantName, updated.FrequencyDays)}
	case "t":
		r, ok := m.currentReminder()
		if !ok {
			return m, nil
		}
		if err := m.deps.Reminders.SetEnabled(m.ctx, r.ID, !r.Enabled); err != nil {
			m.fail(err)
			return m, nil
		}
		state := "disabled"
		if !r.Enabled {
			state = "enabled"
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s reminder for %s %s", r.Kind.Label(), r.PlantName, state)}
	case "x":
		r, ok := m.currentReminder()
		if !ok {
			return m, nil
		}
		if err := m.deps.Reminders.Delete(m.ctx, r.ID); err != nil {
			m.fail(err)
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("deleted %s reminder for %s", r.Kind.Label(), r.PlantName)}
	case "s":
		m.Reminders.ShowAll = !m.Reminders.ShowAll
		m.Reminders.Cursor = 0
		if m.Reminders.ShowAll {
			m.Status = StatusBar{Text: "showing all reminders"}
		} else {
			m.Status = StatusBar{Text: "showing open reminders"}
		}
	}
	return m, nil
}

// weatherCache is implemented by providers that keep recent readings.
type weatherCache interface {
	Invalidate()
	Stats() (hits, misses int)
}

// startWeatherFetch asks the provider for a reading. With force a caching
// provider drops its stored readings first.
func (m Model) startWeatherFetch(force bool) (Model, tea.Cmd) {
	if m.Reminders.Fetching {
		return m, nil
	}
	if c, ok := m.deps.Weather.(weatherCache); ok && force {
		c.Invalidate()
	}
	cmd := m.fetchWeatherCmd()
	if cmd == nil {
		m.Status = StatusBar{Text: "weather unavailable", IsError: true}
		return m, nil
	}
	m.Reminders.Fetching = true
	m.Status = StatusBar{Text: fmt.Sprintf("checking weather in %s...", m.cfg.Location)}
	return m, tea.Batch(m.busySpinner.Tick, cmd)
}

// onWeather keeps the previous reading when a fetch fails so the schedule
// does not jump back and forth.
func (m Model) onWeather(msg WeatherMsg) Model {
	m.Reminders.Fetching = false
	if msg.Err != nil {
		m.Reminders.WeatherErr = msg.Err.Error()
		m.Status = StatusBar{Text: "weather: " + msg.Err.Error(), IsError: true}
		return m
	}
	if c, ok := m.deps.Weather.(weatherCache); ok {
		hits, misses := c.Stats()
		m.deps.Logger.Debug("weather reading", "provider", m.deps.Weather.Name(), "cache_hits", hits, "cache_misses", misses)
	}
	snap := msg.Snapshot
	m.Reminders.Weather = &snap
	m.Reminders.WeatherErr = ""
	m.Status = StatusBar{Text: "weather updated: " + snap.Description}
	return m
}

func (m Model) onDue(ev DueMsg) Model {
	m.DueLog = append(m.DueLog, ev.Event)
	if len(m.DueLog) > m.cfg.DueLogSize {
		m.DueLog = m.DueLog[len(m.DueLog)-m.cfg.DueLogSize:]
	}
	n := len(ev.Event.Reminders)
	switch n {
	case 0:
		return m
	case 1:
		r := ev.Event.Reminders[0]
		m.Status = StatusBar{Text: fmt.Sprintf("%s due for %s", r.Kind.Label(), r.PlantName)}
	default:
		m.Status = StatusBar{Text: fmt.Sprintf("%d plants need attention", n)}
	}
	return m
}
