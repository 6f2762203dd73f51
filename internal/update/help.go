package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/urbanroots/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Shop, Action: "switch to Shop"},
		{Key: m.Keys.Cart, Action: "switch to Cart"},
		{Key: m.Keys.Plants, Action: "switch to Plants"},
		{Key: m.Keys.Reminders, Action: "switch to Reminders"},
		{Key: m.Keys.Garden, Action: "switch to Garden"},
		{Key: "w", Action: "refresh weather"},
		{Key: "W", Action: "refetch weather, skipping the cache"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewShop:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "a", Action: "add to cart"},
		}
	case ViewCart:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "+/-", Action: "change quantity"},
			{Key: "x", Action: "remove line"},
			{Key: "C", Action: "clear cart"},
			{Key: "o", Action: "place order"},
		}
	case ViewPlants:
		return []KeyBinding{
			{Key: "tab", Action: "next filter"},
			{Key: "j/k", Action: "move selection"},
			{Key: "r", Action: "add watering reminder"},
			{Key: "x", Action: "delete plant"},
		}
	case ViewReminders:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "c", Action: "mark done"},
			{Key: "t", Action: "enable/disable"},
			{Key: "x", Action: "delete"},
			{Key: "s", Action: "show all/open"},
		}
	case ViewGarden:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "l", Action: "like/unlike post"},
			{Key: "/share", Action: "share a post (#tag @region)"},
			{Key: "/curate", Action: "answer the garden questionnaire (key=value)"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
