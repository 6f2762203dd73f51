package views

import (
	"fmt"
	"strings"
)

type ShopItemData struct {
	ID       string
	Name     string
	Category string
	Price    string
	Rating   float64
	InStock  bool
	InCart   int
}

type ShopPanelData struct {
	ListView string
	Count    int
}

type CartLineData struct {
	ItemID   string
	Name     string
	Price    string
	Quantity int
	Subtotal string
}

type CartPanelData struct {
	TableView string
	Lines     []CartLineData
	Pending   bool
}

type CartSummaryData struct {
	ItemCount       int
	Subtotal        string
	DeliveryFee     string
	Total           string
	FreeDelivery    bool
	FreeDeliveryGap string
}

type PlantData struct {
	ID             string
	Name           string
	Type           string
	WaterFrequency string
	Sunlight       string
	DateAdded      string
	Reminders      int
	// SuggestedCare lists the default reminders for the plant's type.
	SuggestedCare []string
}

type PlantsPanelData struct {
	Tab        string
	Tabs       []string
	Plants     []PlantData
	SelectedID string
}

type TipData struct {
	Title    string
	Season   string
	Category string
	Summary  string
}

type ReminderItemData struct {
	ID            string
	PlantName     string
	Kind          string
	NextDue       string
	FrequencyDays int
	Enabled       bool
	Due           bool
	Overdue       bool
	Shifted       bool
}

type RemindersPanelData struct {
	Items      []ReminderItemData
	SelectedID string
	ShowAll    bool
	Weather    string
}

type ReminderDetailData struct {
	ID            string
	PlantName     string
	Kind          string
	FrequencyDays int
	LastCompleted string
	NotesView     string
}

type PostData struct {
	ID       string
	Author   string
	Initials string
	Region   string
	Tags     []string
	Content  string
	Likes    int
	Liked    bool
	Posted   string
}

type GardenPanelData struct {
	Posts      []PostData
	SelectedID string
	Sharing    bool
}

// PlanData is a curated garden plan reduced to display strings.
type PlanData struct {
	Garden  string
	Plants  []string
	Layouts []string
	Kits    []string
	Note    string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

type ToastData struct {
	Level string
	Title string
	Body  string
	At    string
}

func RenderShopPanel(data ShopPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("shop: %d items\n", data.Count))
	b.WriteString("actions: [j/k]move [a]add to cart\n")
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

func RenderShopItem(item *ShopItemData) string {
	if item == nil {
		return "item:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("item:\n")
	b.WriteString(fmt.Sprintf("id: %s\n", item.ID))
	b.WriteString(fmt.Sprintf("name: %s\n", item.Name))
	b.WriteString(fmt.Sprintf("category: %s\n", item.Category))
	b.WriteString(fmt.Sprintf("price: ₹%s\n", item.Price))
	b.WriteString(fmt.Sprintf("rating: %.1f\n", item.Rating))
	if !item.InStock {
		b.WriteString(Badge("[OUT OF STOCK]", "warn") + "\n")
	}
	if item.InCart > 0 {
		b.WriteString(fmt.Sprintf("in cart: %d\n", item.InCart))
	}
	return strings.TrimSpace(b.String())
}

func RenderCartPanel(data CartPanelData) string {
	var b strings.Builder
	b.WriteString("cart:\n")
	b.WriteString("actions: [+/-]qty [x]remove [C]clear [o]checkout\n")
	if len(data.Lines) == 0 {
		b.WriteString("(cart is empty)")
		return b.String()
	}
	b.WriteString(data.TableView)
	if data.Pending {
		b.WriteString("\nplacing order...")
	}
	return strings.TrimSpace(b.String())
}

func RenderCartSummary(data CartSummaryData) string {
	var b strings.Builder
	b.WriteString("summary:\n")
	b.WriteString(fmt.Sprintf("items: %d\n", data.ItemCount))
	b.WriteString(fmt.Sprintf("subtotal: ₹%s\n", data.Subtotal))
	if data.FreeDelivery {
		b.WriteString("delivery: FREE\n")
	} else {
		b.WriteString(fmt.Sprintf("delivery: ₹%s\n", data.DeliveryFee))
	}
	b.WriteString(fmt.Sprintf("total: ₹%s\n", data.Total))
	if !data.FreeDelivery && data.FreeDeliveryGap != "" {
		b.WriteString(fmt.Sprintf("add ₹%s more for free delivery\n", data.FreeDeliveryGap))
	}
	return strings.TrimSpace(b.String())
}

func RenderPlantsPanel(data PlantsPanelData) string {
	var b strings.Builder
	b.WriteString("plants:\n")
	tabs := make([]string, 0, len(data.Tabs))
	for _, t := range data.Tabs {
		if t == data.Tab {
			tabs = append(tabs, "["+t+"]")
			continue
		}
		tabs = append(tabs, t)
	}
	b.WriteString("tabs: " + strings.Join(tabs, " ") + "\n")
	b.WriteString("actions: [tab]filter [j/k]move [r]water reminder [x]delete\n")
	if len(data.Plants) == 0 {
		b.WriteString("(no plants in this tab)")
		return b.String()
	}
	for _, p := range data.Plants {
		cursor := " "
		if p.ID == data.SelectedID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s (%s)", cursor, p.Name, p.Type))
		if p.Reminders > 0 {
			b.WriteString(fmt.Sprintf(" reminders:%d", p.Reminders))
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderPlantDetail(p *PlantData, tip *TipData) string {
	var b strings.Builder
	if p == nil {
		b.WriteString("plant:\n(no selection)\n")
	} else {
		b.WriteString("plant:\n")
		b.WriteString(fmt.Sprintf("id: %s\n", p.ID))
		b.WriteString(fmt.Sprintf("type: %s\n", p.Type))
		b.WriteString(fmt.Sprintf("water: %s\n", p.WaterFrequency))
		b.WriteString(fmt.Sprintf("sunlight: %s\n", p.Sunlight))
		b.WriteString(fmt.Sprintf("added: %s\n", p.DateAdded))
		if len(p.SuggestedCare) > 0 {
			b.WriteString("suggested care:\n")
			for _, c := range p.SuggestedCare {
				b.WriteString("  " + c + "\n")
			}
		}
	}
	if tip != nil {
		b.WriteString(fmt.Sprintf("\ntip (%s, %s):\n%s\n%s\n", tip.Season, tip.Category, tip.Title, tip.Summary))
	}
	return strings.TrimSpace(b.String())
}

func RenderRemindersPanel(data RemindersPanelData) string {
	var b strings.Builder
	scope := "open"
	if data.ShowAll {
		scope = "all"
	}
	b.WriteString(fmt.Sprintf("reminders: %s\n", scope))
	if data.Weather != "" {
		b.WriteString("weather: " + data.Weather + "\n")
	}
	b.WriteString("actions: [j/k]move [c]complete [t]toggle [x]delete [s]show all [w]weather\n")
	if len(data.Items) == 0 {
		b.WriteString("(nothing due)")
		return b.String()
	}
	for _, item := range data.Items {
		cursor := " "
		if item.ID == data.SelectedID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s: %s due %s", cursor, reminderBadge(item), item.Kind, item.PlantName, item.NextDue))
		if item.Shifted {
			b.WriteString(" *")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderReminderDetail(data *ReminderDetailData) string {
	if data == nil {
		return "reminder:\n(no selection)"
	}
	last := data.LastCompleted
	if last == "" {
		last = "never"
	}
	return fmt.Sprintf("reminder:\nid: %s\nplant: %s\nkind: %s\nevery: %d days\nlast done: %s\n\nnotes:\n%s",
		data.ID,
		data.PlantName,
		data.Kind,
		data.FrequencyDays,
		last,
		data.NotesView,
	)
}

func RenderGardenPanel(data GardenPanelData) string {
	var b strings.Builder
	b.WriteString("community feed\n")
	b.WriteString("actions: [j/k]move [l]like /share <text> #tag @region\n")
	if data.Sharing {
		b.WriteString("sharing your post...\n")
	}
	if len(data.Posts) == 0 {
		b.WriteString("(be the first to share your gardening experience)")
		return b.String()
	}
	for _, p := range data.Posts {
		cursor := " "
		if p.ID == data.SelectedID {
			cursor = ">"
		}
		heart := "♡"
		if p.Liked {
			heart = "♥"
		}
		b.WriteString(fmt.Sprintf("%s [%s] %s", cursor, p.Initials, p.Author))
		if p.Region != "" {
			b.WriteString(" · " + p.Region)
		}
		b.WriteString(fmt.Sprintf(" · %s\n    %s\n    %s %d", p.Posted, p.Content, heart, p.Likes))
		if len(p.Tags) > 0 {
			b.WriteString("  #" + strings.Join(p.Tags, " #"))
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderGardenPlan(data *PlanData, curating bool) string {
	var b strings.Builder
	b.WriteString("garden plan:\n")
	if curating {
		b.WriteString("generating recommendations...\n")
	}
	if data == nil {
		b.WriteString("(no plan yet, try /curate garden=herb size=sm)")
		return b.String()
	}
	if data.Garden != "" {
		b.WriteString(data.Garden + "\n")
	}
	for _, sec := range []struct {
		title string
		names []string
	}{
		{"plants", data.Plants},
		{"layouts", data.Layouts},
		{"kits", data.Kits},
	} {
		b.WriteString(sec.title + ":\n")
		for _, n := range sec.names {
			b.WriteString("- " + n + "\n")
		}
	}
	if data.Note != "" {
		b.WriteString("\n" + data.Note)
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("\ncommand: /%s", input)
}

// RenderFeed lists the newest toasts first.
func RenderFeed(toasts []ToastData, limit int) string {
	if len(toasts) == 0 {
		return ""
	}
	if limit > 0 && len(toasts) > limit {
		toasts = toasts[len(toasts)-limit:]
	}
	var b strings.Builder
	b.WriteString("notifications:\n")
	for i := len(toasts) - 1; i >= 0; i-- {
		t := toasts[i]
		b.WriteString(fmt.Sprintf("%s %s %s", t.At, Badge("["+strings.ToUpper(t.Level)+"]", severity(t.Level)), t.Title))
		if t.Body != "" {
			b.WriteString(" - " + t.Body)
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("\nhelp:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func reminderBadge(item ReminderItemData) string {
	switch {
	case !item.Enabled:
		return Badge("[OFF]", "info")
	case item.Overdue:
		return Badge("[OVERDUE]", "error")
	case item.Due:
		return Badge("[DUE]", "warn")
	default:
		return Badge("[OK]", "info")
	}
}

func severity(level string) string {
	switch level {
	case "error":
		return "error"
	case "warning":
		return "warn"
	default:
		return "info"
	}
}
