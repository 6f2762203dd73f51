package update

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/urbanroots/internal/cart"
	"github.com/sandeepkv93/urbanroots/internal/catalog"
	"github.com/sandeepkv93/urbanroots/internal/clock"
	"github.com/sandeepkv93/urbanroots/internal/community"
	"github.com/sandeepkv93/urbanroots/internal/curation"
	"github.com/sandeepkv93/urbanroots/internal/model"
	"github.com/sandeepkv93/urbanroots/internal/notify"
	"github.com/sandeepkv93/urbanroots/internal/plants"
	"github.com/sandeepkv93/urbanroots/internal/reminders"
	"github.com/sandeepkv93/urbanroots/internal/scheduler"
	"github.com/sandeepkv93/urbanroots/internal/seasonal"
	"github.com/sandeepkv93/urbanroots/internal/weather"
)

type View string

const (
	ViewShop      View = "Shop"
	ViewCart      View = "Cart"
	ViewPlants    View = "Plants"
	ViewReminders View = "Reminders"
	ViewGarden    View = "Garden"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Shop      string
	Cart      string
	Plants    string
	Reminders string
	Garden    string
	Help      string
	Quit      string
}

// Deps are the long-lived services the model drives. Cart, Plants and
// Reminders are required; the rest may be nil.
type Deps struct {
	Catalog   *catalog.Catalog
	Cart      *cart.Manager
	Plants    *plants.Manager
	Reminders *reminders.Manager
	Weather   weather.Provider
	Curation  *curation.Manager
	Community *community.Manager
	Poller    *scheduler.Poller
	Feed      *notify.Recorder
	Clock     clock.Clock
	Tips      []seasonal.Tip
	Logger    *slog.Logger
}

type Model struct {
	CurrentView View
	Shop        ShopState
	Cart        CartState
	Plants      PlantsState
	Reminders   RemindersState
	Garden      GardenState
	DueLog      []scheduler.DueEvent
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	deps Deps
	cfg  RuntimeConfig
	ctx  context.Context

	shopList      list.Model
	cartTable     table.Model
	commandInput  textinput.Model
	busySpinner   spinner.Model
	helpModel     help.Model
	notesViewport viewport.Model
	notesFor      string
}

type ShopState struct {
	Cursor int
}

type CartState struct {
	Cursor  int
	Pending bool
}

type PlantsState struct {
	Tab    plants.Tab
	Cursor int
}

type RemindersState struct {
	Cursor   int
	ShowAll  bool
	Fetching bool
	Weather  *model.WeatherSnapshot
	// WeatherErr is shown in place of the forecast when the last fetch failed.
	WeatherErr string
}

type GardenState struct {
	Cursor   int
	Sharing  bool
	Curating bool
	// Plan is the last curated plan, loaded from the saved answers at start.
	Plan     *curation.Plan
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type DueMsg struct {
	Event scheduler.DueEvent
}

type WeatherMsg struct {
	Snapshot model.WeatherSnapshot
	Err      error
}

type CheckoutDoneMsg struct {
	Order cart.Order
	Err   error
}

type ShareDoneMsg struct {
	Post community.Post
	Err  error
}

type CurateDoneMsg struct {
	Plan curation.Plan
	Err  error
}
