package update

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/urbanroots/internal/commands"
	"github.com/sandeepkv93/urbanroots/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var queued []tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			id := m.resolveItem(a.Item)
			if err := m.deps.Cart.Add(m.ctx, id, a.Quantity); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewCart
			return commands.Result{Message: fmt.Sprintf("added %d x %s", a.Quantity, a.Item)}, nil
		},
		Quantity: func(q commands.QuantityArgs) (commands.Result, error) {
			line, ok := m.resolveCartLine(q.Item)
			if !ok {
				return commands.Result{}, notInCart(q.Item)
			}
			if err := m.deps.Cart.UpdateQuantity(m.ctx, line.ItemID, q.Quantity); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s quantity set to %d", line.Name, q.Quantity)}, nil
		},
		Remove: func(r commands.RemoveArgs) (commands.Result, error) {
			line, ok := m.resolveCartLine(r.Item)
			if !ok {
				return commands.Result{}, notInCart(r.Item)
			}
			if err := m.deps.Cart.Remove(m.ctx, line.ItemID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("removed %s", line.Name)}, nil
		},
		Clear: func() (commands.Result, error) {
			if err := m.deps.Cart.Clear(m.ctx); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "cart cleared"}, nil
		},
		Checkout: func() (commands.Result, error) {
			next, c := m.startCheckout()
			if c == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: next.Status.Text}
			}
			m = next
			m.CurrentView = ViewCart
			queued = append(queued, c)
			return commands.Result{Message: "placing order..."}, nil
		},
		Remind: func(r commands.RemindArgs) (commands.Result, error) {
			p, ok := m.deps.Plants.Find(r.Plant)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no plant named %q", r.Plant)}
			}
			rem, err := m.deps.Reminders.Create(m.ctx, p.ID, p.Name, p.Type, r.Kind)
			if err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewReminders
			return commands.Result{Message: fmt.Sprintf("%s reminder set for %s every %d days", rem.Kind.Label(), p.Name, rem.FrequencyDays)}, nil
		},
		Done: func(a commands.ReminderArgs) (commands.Result, error) {
			r, err := m.resolveReminder(a.Reminder)
			if err != nil {
				return commands.Result{}, err
			}
			updated, err := m.deps.Reminders.Complete(m.ctx, r.ID)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s done for %s", updated.Kind.Label(), updated.PlantName)}, nil
		},
		Toggle: func(a commands.ToggleArgs) (commands.Result, error) {
			r, err := m.resolveReminder(a.Reminder)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.deps.Reminders.SetEnabled(m.ctx, r.ID, a.Enabled); err != nil {
				return commands.Result{}, err
			}
			state := "off"
			if a.Enabled {
				state = "on"
			}
			return commands.Result{Message: fmt.Sprintf("%s reminder for %s %s", r.Kind.Label(), r.PlantName, state)}, nil
		},
		Forget: func(a commands.ReminderArgs) (commands.Result, error) {
			r, err := m.resolveReminder(a.Reminder)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.deps.Reminders.Delete(m.ctx, r.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted %s reminder for %s", r.Kind.Label(), r.PlantName)}, nil
		},
		Weather: func() (commands.Result, error) {
			next, c := m.startWeatherFetch(false)
			if c == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "weather provider not configured"}
			}
			m = next
			m.CurrentView = ViewReminders
			queued = append(queued, c)
			return commands.Result{Message: next.Status.Text}, nil
		},
		Share: func(a commands.ShareArgs) (commands.Result, error) {
			next, c, err := m.startShare(a)
			if err != nil {
				return commands.Result{}, err
			}
			m = next
			queued = append(queued, c)
			return commands.Result{Message: "sharing post..."}, nil
		},
		Curate: func(a commands.CurateArgs) (commands.Result, error) {
			next, c, err := m.startCurate(a)
			if err != nil {
				return commands.Result{}, err
			}
			m = next
			queued = append(queued, c)
			return commands.Result{Message: "generating recommendations..."}, nil
		},
	})
	if err != nil {
		m.fail(err)
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	return m, tea.Batch(queued...)
}

// resolveItem maps an id or a case-insensitive name to a catalog id.
// Unknown references pass through so the cart can report them.
func (m Model) resolveItem(ref string) string {
	ref = strings.TrimSpace(ref)
	if m.deps.Catalog == nil {
		return ref
	}
	if _, ok := m.deps.Catalog.Resolve(ref); ok {
		return ref
	}
	for _, item := range m.deps.Catalog.All() {
		if strings.EqualFold(item.Name, ref) || strings.HasPrefix(strings.ToLower(item.Name), strings.ToLower(ref)+" ") {
			return item.ID
		}
	}
	return ref
}

func (m Model) resolveCartLine(ref string) (model.CartLine, bool) {
	ref = strings.TrimSpace(ref)
	if line, ok := m.deps.Cart.Line(ref); ok {
		return line, true
	}
	id := m.resolveItem(ref)
	return m.deps.Cart.Line(id)
}

// resolveReminder accepts a 1-based position in the visible list, a full or
// unique prefix id, or a plant name with exactly one reminder.
func (m Model) resolveReminder(ref string) (model.Reminder, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		rows := m.reminderRows()
		if n < 1 || n > len(rows) {
			return model.Reminder{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no reminder at position %d", n)}
		}
		return rows[n-1], nil
	}
	if r, ok := m.deps.Reminders.Get(ref); ok {
		return r, nil
	}
	var matches []model.Reminder
	for _, r := range m.deps.Reminders.List() {
		if strings.HasPrefix(r.ID, ref) || strings.EqualFold(r.PlantName, ref) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.Reminder{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no reminder matches %q", ref)}
	default:
		return model.Reminder{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("%q matches %d reminders", ref, len(matches))}
	}
}

func notInCart(ref string) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("%q is not in the cart", ref)}
}
