package update

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/urbanroots/internal/cart"
	"github.com/sandeepkv93/urbanroots/internal/model"
	"github.com/sandeepkv93/urbanroots/internal/plants"
	"github.com/sandeepkv93/urbanroots/internal/views"
)

func (m Model) renderShopView() string {
	return views.RenderShopPanel(views.ShopPanelData{
		ListView: m.shopList.View(),
		Count:    len(m.shopItems()),
	})
}

func (m Model) renderShopDetail() string {
	item, ok := m.currentShopItem()
	if !ok {
		return views.RenderShopItem(nil)
	}
	data := &views.ShopItemData{
		ID:       item.ID,
		Name:     item.Name,
		Category: item.Category,
		Price:    item.Price.StringFixed(2),
		Rating:   item.Rating,
		InStock:  item.InStock,
	}
	if line, ok := m.deps.Cart.Line(item.ID); ok {
		data.InCart = line.Quantity
	}
	return views.RenderShopItem(data)
}

func (m Model) renderCartView() string {
	lines := m.cartLines()
	data := make([]views.CartLineData, 0, len(lines))
	for _, line := range lines {
		data = append(data, views.CartLineData{
			ItemID:   line.ItemID,
			Name:     line.Name,
			Price:    line.Price.StringFixed(2),
			Quantity: line.Quantity,
			Subtotal: line.Subtotal().StringFixed(2),
		})
	}
	return views.RenderCartPanel(views.CartPanelData{
		TableView: m.cartTable.View(),
		Lines:     data,
		Pending:   m.Cart.Pending,
	})
}

func (m Model) renderCartSummary() string {
	s := cart.Summarize(m.cartLines())
	return views.RenderCartSummary(views.CartSummaryData{
		ItemCount:       m.cartCount(),
		Subtotal:        s.Subtotal.StringFixed(2),
		DeliveryFee:     s.DeliveryFee.StringFixed(2),
		Total:           s.Total.StringFixed(2),
		FreeDelivery:    s.FreeDelivery(),
		FreeDeliveryGap: s.FreeDeliveryGap.StringFixed(2),
	})
}

func (m Model) renderPlantsView() string {
	rows := m.plantRows()
	counts := m.reminderCounts()
	data := make([]views.PlantData, 0, len(rows))
	for _, p := range rows {
		data = append(data, plantData(p, counts[p.ID]))
	}
	tabs := make([]string, 0, len(plants.Tabs()))
	for _, t := range plants.Tabs() {
		tabs = append(tabs, string(t))
	}
	selected := ""
	if p, ok := m.currentPlant(); ok {
		selected = p.ID
	}
	return views.RenderPlantsPanel(views.PlantsPanelData{
		Tab:        string(m.Plants.Tab),
		Tabs:       tabs,
		Plants:     data,
		SelectedID: selected,
	})
}

func (m Model) renderPlantDetail() string {
	var tip *views.TipData
	if len(m.deps.Tips) > 0 {
		t := m.deps.Tips[0]
		tip = &views.TipData{
			Title:    t.Title,
			Season:   string(t.Season),
			Category: string(t.Category),
			Summary:  t.Summary(120),
		}
	}
	p, ok := m.currentPlant()
	if !ok {
		return views.RenderPlantDetail(nil, tip)
	}
	data := plantData(p, 0)
	for _, d := range m.deps.Reminders.Suggestions(p.Type) {
		data.SuggestedCare = append(data.SuggestedCare, fmt.Sprintf("%s every %d days", d.Kind.Label(), d.FrequencyDays))
	}
	return views.RenderPlantDetail(&data, tip)
}

func (m Model) renderRemindersView() string {
	now := m.now()
	rows := m.reminderRows()
	items := make([]views.ReminderItemData, 0, len(rows))
	for _, r := range rows {
		shifted := false
		if stored, ok := m.deps.Reminders.Get(r.ID); ok {
			shifted = !stored.NextDue.Equal(r.NextDue)
		}
		items = append(items, views.ReminderItemData{
			ID:            r.ID,
			PlantName:     r.PlantName,
			Kind:          r.Kind.Label(),
			NextDue:       formatDue(r.NextDue, now),
			FrequencyDays: r.FrequencyDays,
			Enabled:       r.Enabled,
			Due:           r.IsDue(now),
			Overdue:       r.IsOverdue(now),
			Shifted:       shifted,
		})
	}
	selected := ""
	if r, ok := m.currentReminder(); ok {
		selected = r.ID
	}
	return views.RenderRemindersPanel(views.RemindersPanelData{
		Items:      items,
		SelectedID: selected,
		ShowAll:    m.Reminders.ShowAll,
		Weather:    m.weatherLine(),
	})
}

func (m Model) renderReminderDetail() string {
	r, ok := m.currentReminder()
	if !ok {
		return views.RenderReminderDetail(nil)
	}
	last := ""
	if r.LastCompleted != nil {
		last = formatDue(*r.LastCompleted, m.now())
	}
	return views.RenderReminderDetail(&views.ReminderDetailData{
		ID:            r.ID,
		PlantName:     r.PlantName,
		Kind:          r.Kind.Label(),
		FrequencyDays: r.FrequencyDays,
		LastCompleted: last,
		NotesView:     m.notesViewport.View(),
	})
}

func (m Model) weatherLine() string {
	switch {
	case m.Reminders.Fetching:
		return "checking..."
	case m.Reminders.Weather != nil:
		return describeWeather(*m.Reminders.Weather)
	case m.Reminders.WeatherErr != "":
		return "unavailable"
	default:
		return ""
	}
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderFeed() string {
	if m.deps.Feed == nil {
		return ""
	}
	toasts := m.deps.Feed.Toasts()
	data := make([]views.ToastData, 0, len(toasts))
	for _, t := range toasts {
		data = append(data, views.ToastData{
			Level: string(t.Level),
			Title: t.Title,
			Body:  t.Body,
			At:    t.At.Format("15:04"),
		})
	}
	return strings.TrimSpace(views.RenderFeed(data, m.cfg.FeedSize))
}

func plantData(p model.Plant, reminderCount int) views.PlantData {
	return views.PlantData{
		ID:             p.ID,
		Name:           p.Name,
		Type:           p.Type,
		WaterFrequency: p.WaterFrequency,
		Sunlight:       p.Sunlight,
		DateAdded:      p.DateAdded,
		Reminders:      reminderCount,
	}
}
