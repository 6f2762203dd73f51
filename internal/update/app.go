package update

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/urbanroots/internal/clock"
	"github.com/sandeepkv93/urbanroots/internal/community"
	"github.com/sandeepkv93/urbanroots/internal/curation"
	"github.com/sandeepkv93/urbanroots/internal/model"
	"github.com/sandeepkv93/urbanroots/internal/plants"
	"github.com/sandeepkv93/urbanroots/internal/reminders"
	"github.com/sandeepkv93/urbanroots/internal/scheduler"
	"github.com/sandeepkv93/urbanroots/internal/views"
)

func NewModel(deps Deps, cfg RuntimeConfig) Model {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	deps.Logger = deps.Logger.With("component", "tui")
	if cfg.DueLogSize <= 0 {
		cfg.DueLogSize = DefaultRuntimeConfig().DueLogSize
	}
	m := Model{
		CurrentView: ViewShop,
		Plants:      PlantsState{Tab: plants.TabAll},
		Reminders:   RemindersState{ShowAll: cfg.ShowAll},
		Keys: GlobalKeyMap{
			Shop:      "1",
			Cart:      "2",
			Plants:    "3",
			Reminders: "4",
			Garden:    "5",
			Help:      "?",
			Quit:      "q",
		},
		deps: deps,
		cfg:  cfg,
		ctx:  context.Background(),
	}
	if deps.Curation != nil {
		plan, ok, err := deps.Curation.Last(m.ctx)
		switch {
		case err != nil:
			deps.Logger.Warn("load garden plan", "error", err)
		case ok:
			m.Garden.Plan = &plan
		}
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

// WithContext bounds every manager call the model makes by ctx.
func (m Model) WithContext(ctx context.Context) Model {
	if ctx != nil {
		m.ctx = ctx
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.shopList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 14)
	m.shopList.Title = "Plants & supplies"
	m.shopList.SetShowHelp(false)
	m.shopList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Item", Width: 22},
		{Title: "Qty", Width: 4},
		{Title: "Price", Width: 9},
		{Title: "Subtotal", Width: 10},
	}
	m.cartTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(8))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 44

	m.busySpinner = spinner.New()
	m.busySpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.notesViewport = viewport.New(46, 8)
}

func (m *Model) syncBubbleData() {
	items := m.shopItems()
	shopItems := make([]list.Item, 0, len(items))
	for _, item := range items {
		desc := fmt.Sprintf("₹%s | %s", item.Price.StringFixed(2), item.Category)
		if !item.InStock {
			desc += " | out of stock"
		}
		shopItems = append(shopItems, listItem{title: item.Name, description: desc})
	}
	m.Shop.Cursor = clampCursor(m.Shop.Cursor, len(shopItems))
	m.shopList.SetItems(shopItems)
	if len(shopItems) > 0 {
		m.shopList.Select(m.Shop.Cursor)
	}

	lines := m.cartLines()
	rows := make([]table.Row, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, table.Row{
			line.Name,
			fmt.Sprintf("%d", line.Quantity),
			line.Price.StringFixed(2),
			line.Subtotal().StringFixed(2),
		})
	}
	m.Cart.Cursor = clampCursor(m.Cart.Cursor, len(rows))
	m.cartTable.SetRows(rows)
	if len(rows) > 0 {
		m.cartTable.SetCursor(m.Cart.Cursor)
	}

	m.Plants.Cursor = clampCursor(m.Plants.Cursor, len(m.plantRows()))
	m.Reminders.Cursor = clampCursor(m.Reminders.Cursor, len(m.reminderRows()))

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}

	if m.CurrentView == ViewReminders {
		if sel, ok := m.currentReminder(); ok && sel.ID+sel.Notes != m.notesFor {
			md := sel.Notes
			if strings.TrimSpace(md) == "" {
				md = "_No care notes_"
			}
			m.notesViewport.SetContent(views.RenderMarkdown(md))
			m.notesFor = sel.ID + sel.Notes
		}
	}
}

func (m Model) now() time.Time {
	return m.deps.Clock.Now()
}

func (m Model) shopItems() []model.CatalogItem {
	if m.deps.Catalog == nil {
		return nil
	}
	return m.deps.Catalog.All()
}

func (m Model) cartLines() []model.CartLine {
	if m.deps.Cart == nil {
		return nil
	}
	return m.deps.Cart.Lines()
}

func (m Model) plantRows() []model.Plant {
	if m.deps.Plants == nil {
		return nil
	}
	rows, err := m.deps.Plants.ByTab(m.Plants.Tab)
	if err != nil {
		return nil
	}
	return rows
}

// reminderRows is the panel list: the stored schedule shifted for the last
// weather reading, then filtered by the show-all toggle.
func (m Model) reminderRows() []model.Reminder {
	if m.deps.Reminders == nil {
		return nil
	}
	rows := m.deps.Reminders.List()
	if m.Reminders.Weather != nil {
		rows = reminders.AdjustForWeather(rows, *m.Reminders.Weather)
	}
	return reminders.Visible(rows, m.now(), m.Reminders.ShowAll)
}

func (m Model) currentShopItem() (model.CatalogItem, bool) {
	items := m.shopItems()
	if m.Shop.Cursor < 0 || m.Shop.Cursor >= len(items) {
		return model.CatalogItem{}, false
	}
	return items[m.Shop.Cursor], true
}

func (m Model) currentCartLine() (model.CartLine, bool) {
	lines := m.cartLines()
	if m.Cart.Cursor < 0 || m.Cart.Cursor >= len(lines) {
		return model.CartLine{}, false
	}
	return lines[m.Cart.Cursor], true
}

func (m Model) currentPlant() (model.Plant, bool) {
	rows := m.plantRows()
	if m.Plants.Cursor < 0 || m.Plants.Cursor >= len(rows) {
		return model.Plant{}, false
	}
	return rows[m.Plants.Cursor], true
}

func (m Model) currentReminder() (model.Reminder, bool) {
	rows := m.reminderRows()
	if m.Reminders.Cursor < 0 || m.Reminders.Cursor >= len(rows) {
		return model.Reminder{}, false
	}
	return rows[m.Reminders.Cursor], true
}

func (m *Model) moveCursor(delta int) {
	switch m.CurrentView {
	case ViewShop:
		m.Shop.Cursor = clampCursor(m.Shop.Cursor+delta, len(m.shopItems()))
	case ViewCart:
		m.Cart.Cursor = clampCursor(m.Cart.Cursor+delta, len(m.cartLines()))
	case ViewPlants:
		m.Plants.Cursor = clampCursor(m.Plants.Cursor+delta, len(m.plantRows()))
	case ViewReminders:
		m.Reminders.Cursor = clampCursor(m.Reminders.Cursor+delta, len(m.reminderRows()))
	}
}

func (m Model) busy() bool {
	return m.Cart.Pending || m.Reminders.Fetching || m.Garden.Sharing || m.Garden.Curating
}

func waitForDueCmd(ch <-chan scheduler.DueEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return DueMsg{Event: ev}
	}
}

func (m Model) fetchWeatherCmd() tea.Cmd {
	if m.deps.Weather == nil || m.deps.Reminders == nil {
		return nil
	}
	ctx, provider, mgr := m.ctx, m.deps.Weather, m.deps.Reminders
	location, timeout := m.cfg.Location, m.cfg.WeatherTimeout
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		_, snap, err := mgr.Adjusted(ctx, provider, location)
		return WeatherMsg{Snapshot: snap, Err: err}
	}
}

func (m Model) shareCmd(d community.Draft) tea.Cmd {
	ctx, mgr := m.ctx, m.deps.Community
	return func() tea.Msg {
		p, err := mgr.Share(ctx, d)
		return ShareDoneMsg{Post: p, Err: err}
	}
}

func (m Model) curateCmd(a curation.Answers) tea.Cmd {
	ctx, mgr := m.ctx, m.deps.Curation
	return func() tea.Msg {
		plan, err := mgr.Submit(ctx, a)
		return CurateDoneMsg{Plan: plan, Err: err}
	}
}

func (m Model) checkoutCmd() tea.Cmd {
	ctx, mgr := m.ctx, m.deps.Cart
	return func() tea.Msg {
		order, err := mgr.Checkout(ctx)
		return CheckoutDoneMsg{Order: order, Err: err}
	}
}
