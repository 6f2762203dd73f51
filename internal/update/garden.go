package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/urbanroots/internal/commands"
	"github.com/sandeepkv93/urbanroots/internal/community"
	"github.com/sandeepkv93/urbanroots/internal/curation"
	"github.com/sandeepkv93/urbanroots/internal/views"
)

func (m Model) handleGardenKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.Garden.Cursor = clampCursor(m.Garden.Cursor+1, len(m.gardenPosts()))
	case "k", "up":
		m.Garden.Cursor = clampCursor(m.Garden.Cursor-1, len(m.gardenPosts()))
	case "l":
		p, ok := m.currentPost()
		if !ok {
			return m, nil
		}
		updated, err := m.deps.Community.ToggleLike(m.ctx, p.ID)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		verb := "unliked"
		if updated.Liked {
			verb = "liked"
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s post by %s", verb, updated.Author)}
	}
	return m, nil
}

func (m Model) gardenPosts() []community.Post {
	if m.deps.Community == nil {
		return nil
	}
	posts, err := m.deps.Community.Feed("", community.SortRecent)
	if err != nil {
		return nil
	}
	return posts
}

func (m Model) currentPost() (community.Post, bool) {
	posts := m.gardenPosts()
	if len(posts) == 0 {
		return community.Post{}, false
	}
	return posts[clampCursor(m.Garden.Cursor, len(posts))], true
}

// startShare queues a community post. Only one share runs at a time.
func (m Model) startShare(a commands.ShareArgs) (Model, tea.Cmd, error) {
	if m.deps.Community == nil {
		return m, nil, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "community feed not configured"}
	}
	if m.Garden.Sharing {
		return m, nil, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "a post is already being shared"}
	}
	m.Garden.Sharing = true
	m.CurrentView = ViewGarden
	d := community.Draft{Content: a.Content, Region: a.Region, Tags: a.Tags}
	return m, tea.Batch(m.busySpinner.Tick, m.shareCmd(d)), nil
}

func (m Model) startCurate(a commands.CurateArgs) (Model, tea.Cmd, error) {
	if m.deps.Curation == nil {
		return m, nil, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "garden curation not configured"}
	}
	if m.Garden.Curating {
		return m, nil, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "recommendations are already being generated"}
	}
	m.Garden.Curating = true
	m.CurrentView = ViewGarden
	return m, tea.Batch(m.busySpinner.Tick, m.curateCmd(answersFrom(a))), nil
}

// answersFrom maps palette key=value pairs onto questionnaire answers.
// List answers are comma separated.
func answersFrom(a commands.CurateArgs) curation.Answers {
	list := func(v string) []string {
		if v == "" {
			return nil
		}
		return strings.Split(v, ",")
	}
	v := a.Answers
	return curation.Answers{
		GardenType:      v["garden"],
		Goals:           list(v["goals"]),
		Vibe:            v["vibe"],
		PlantTypes:      list(v["plants"]),
		Size:            v["size"],
		Sunlight:        v["sunlight"],
		Location:        v["location"],
		WaterSource:     v["water"],
		Climate:         v["climate"],
		Issues:          v["issues"],
		Experience:      v["experience"],
		PreferredOption: v["option"],
		AdditionalInfo:  v["notes"],
	}
}

func (m Model) onShareDone(msg ShareDoneMsg) Model {
	m.Garden.Sharing = false
	if msg.Err != nil {
		m.fail(msg.Err)
		return m
	}
	m.Garden.Cursor = 0
	m.Status = StatusBar{Text: "shared post " + shortRef(msg.Post.ID)}
	return m
}

// onCurateDone keeps a plan that was generated but could not be saved.
func (m Model) onCurateDone(msg CurateDoneMsg) Model {
	m.Garden.Curating = false
	if len(msg.Plan.Plants) > 0 {
		plan := msg.Plan
		m.Garden.Plan = &plan
	}
	if msg.Err != nil {
		m.fail(msg.Err)
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("garden plan ready: %d plants, %d kits", len(msg.Plan.Plants), len(msg.Plan.Kits))}
	return m
}

func (m Model) renderGardenView() string {
	posts := m.gardenPosts()
	data := make([]views.PostData, 0, len(posts))
	now := m.now()
	for _, p := range posts {
		data = append(data, views.PostData{
			ID:       p.ID,
			Author:   p.Author,
			Initials: p.Initials(),
			Region:   p.Region,
			Tags:     p.Tags,
			Content:  p.Content,
			Likes:    p.Likes,
			Liked:    p.Liked,
			Posted:   community.RelativeTime(now, p.CreatedAt),
		})
	}
	selected := ""
	if p, ok := m.currentPost(); ok {
		selected = p.ID
	}
	return views.RenderGardenPanel(views.GardenPanelData{
		Posts:      data,
		SelectedID: selected,
		Sharing:    m.Garden.Sharing,
	})
}

func (m Model) renderGardenPlan() string {
	if m.Garden.Plan == nil {
		return views.RenderGardenPlan(nil, m.Garden.Curating)
	}
	plan := m.Garden.Plan
	data := &views.PlanData{Note: plan.Note}
	if m.deps.Curation != nil && plan.Answers.GardenType != "" {
		data.Garden = curation.Label(m.deps.Curation.Questions().GardenType, plan.Answers.GardenType)
	}
	for _, p := range plan.Plants {
		data.Plants = append(data.Plants, fmt.Sprintf("%s (%s)", p.Name, p.Difficulty))
	}
	for _, p := range plan.Layouts {
		data.Layouts = append(data.Layouts, p.Name)
	}
	for _, p := range plan.Kits {
		data.Kits = append(data.Kits, fmt.Sprintf("%s ₹%s", p.Name, p.Price.StringFixed(0)))
	}
	return views.RenderGardenPlan(data, m.Garden.Curating)
}

func shortRef(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
