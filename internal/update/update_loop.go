package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/urbanroots/internal/views"
)

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.deps.Poller != nil {
		cmds = append(cmds, waitForDueCmd(m.deps.Poller.C()))
	}
	if cmd := m.fetchWeatherCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Shop:
			m.CurrentView = ViewShop
			return m, nil
		case m.Keys.Cart:
			m.CurrentView = ViewCart
			return m, nil
		case m.Keys.Plants:
			m.CurrentView = ViewPlants
			return m, nil
		case m.Keys.Reminders:
			m.CurrentView = ViewReminders
			return m, nil
		case m.Keys.Garden:
			m.CurrentView = ViewGarden
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		case "w":
			return m.startWeatherFetch(false)
		case "W":
			return m.startWeatherFetch(true)
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.CurrentView {
		case ViewShop:
			return m.handleShopKey(typed)
		case ViewCart:
			return m.handleCartKey(typed)
		case ViewPlants:
			return m.handlePlantsKey(typed)
		case ViewReminders:
			return m.handleRemindersKey(typed)
		case ViewGarden:
			return m.handleGardenKey(typed)
		}
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.busySpinner, cmd = m.busySpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
		}
		return m, nil
	case CheckoutDoneMsg:
		return m.onCheckoutDone(typed), nil
	case ShareDoneMsg:
		return m.onShareDone(typed), nil
	case CurateDoneMsg:
		return m.onCurateDone(typed), nil
	case WeatherMsg:
		return m.onWeather(typed), nil
	case DueMsg:
		m = m.onDue(typed)
		if m.deps.Poller != nil {
			return m, waitForDueCmd(m.deps.Poller.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewShop:
		leftPane = m.renderShopView()
		rightPane = m.renderShopDetail()
	case ViewCart:
		leftPane = m.renderCartView()
		rightPane = m.renderCartSummary()
	case ViewPlants:
		leftPane = m.renderPlantsView()
		rightPane = m.renderPlantDetail()
	case ViewReminders:
		leftPane = m.renderRemindersView()
		rightPane = m.renderReminderDetail()
	case ViewGarden:
		leftPane = m.renderGardenView()
		rightPane = m.renderGardenPlan()
	}
	rightPane += m.renderCommandPalette() + m.renderHelpIfVisible()

	notification := m.renderFeed()
	if m.busy() {
		notification = strings.TrimSpace(strings.Join([]string{m.busySpinner.View() + " working...", notification}, "\n"))
	}

	tabs := make([]string, 0, 5)
	for _, v := range []View{ViewShop, ViewCart, ViewPlants, ViewReminders, ViewGarden} {
		tabs = append(tabs, m.tabLabel(v))
	}
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("urbanroots | %s | cart: %d", m.now().Format("Mon 02 Jan 15:04"), m.cartCount()),
		Tabs:         tabs,
		ActiveTab:    m.tabLabel(m.CurrentView),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		Notification: notification,
		Footer:       fmt.Sprintf("keys: %s shop | %s cart | %s plants | %s reminders | %s garden | w weather | / cmd | %s help | %s quit", m.Keys.Shop, m.Keys.Cart, m.Keys.Plants, m.Keys.Reminders, m.Keys.Garden, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) tabLabel(v View) string {
	switch v {
	case ViewCart:
		return fmt.Sprintf("%s (%d)", v, m.cartCount())
	case ViewReminders:
		if m.deps.Reminders != nil {
			if n := len(m.deps.Reminders.Due()); n > 0 {
				return fmt.Sprintf("%s (%d due)", v, n)
			}
		}
	}
	return string(v)
}

func (m Model) cartCount() int {
	if m.deps.Cart == nil {
		return 0
	}
	return m.deps.Cart.ItemCount()
}

func isKnownView(v View) bool {
	switch v {
	case ViewShop, ViewCart, ViewPlants, ViewReminders, ViewGarden:
		return true
	default:
		return false
	}
}
