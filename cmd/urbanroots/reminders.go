package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/urbanroots/internal/model"
	"github.com/sandeepkv93/urbanroots/internal/reminders"
)

func remindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reminders",
		Aliases: []string{"care"},
		Short:   "Manage plant care reminders",
		Long: `Create and complete care reminders. Frequencies come from the
care defaults for the plant's type.`,
	}

	cmd.AddCommand(listRemindersCmd())
	cmd.AddCommand(createReminderCmd())
	cmd.AddCommand(completeReminderCmd())
	cmd.AddCommand(toggleReminderCmd())
	cmd.AddCommand(deleteReminderCmd())
	cmd.AddCommand(dueRemindersCmd())
	cmd.AddCommand(weatherRemindersCmd())

	return cmd
}

func listRemindersCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders that are due or coming up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()
			printReminders(cmd.OutOrStdout(), a.reminders.Visible(all), a.clock.Now())
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include reminders not yet due or already completed")
	return cmd
}

func createReminderCmd() *cobra.Command {
	kinds := make([]string, 0, len(model.ReminderKinds()))
	for _, k := range model.ReminderKinds() {
		kinds = append(kinds, string(k))
	}

	return &cobra.Command{
		Use:   "create <plant> <kind>",
		Short: "Create a reminder for one of your plants",
		Long:  "Kinds: " + strings.Join(kinds, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseReminderKind(args[1])
			if err != nil {
				return err
			}
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			p, ok := findPlant(a.plants, args[0])
			if !ok {
				return fmt.Errorf("no plant matches %q", args[0])
			}
			r, err := a.reminders.Create(cmd.Context(), p.ID, p.Name, p.Type, kind)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s every %d days, next %s\n",
				successStyle.Render("Created"), r.Kind.Label(), r.FrequencyDays, r.NextDue.Local().Format("Mon 2 Jan"))
			return nil
		},
	}
}

func completeReminderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a reminder done and schedule the next one",
		Args:  cobra.ExactArgs(1),
		RunE: withReminder(func(ctx context.Context, a *app, r model.Reminder, out io.Writer) error {
			updated, err := a.reminders.Complete(ctx, r.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Next %s for %s on %s\n",
				strings.ToLower(updated.Kind.Label()), updated.PlantName, updated.NextDue.Local().Format("Mon 2 Jan"))
			return nil
		}),
	}
}

func toggleReminderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Enable or disable a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: withReminder(func(ctx context.Context, a *app, r model.Reminder, out io.Writer) error {
			if err := a.reminders.SetEnabled(ctx, r.ID, !r.Enabled); err != nil {
				return err
			}
			state := "enabled"
			if r.Enabled {
				state = "disabled"
			}
			fmt.Fprintf(out, "%s reminder for %s %s\n", r.Kind.Label(), r.PlantName, state)
			return nil
		}),
	}
}

func deleteReminderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: withReminder(func(ctx context.Context, a *app, r model.Reminder, _ io.Writer) error {
			return a.reminders.Delete(ctx, r.ID)
		}),
	}
}

func dueRemindersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "Check for due reminders and send notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			a.reminders.RequestPermission(cmd.Context())
			due, err := a.reminders.CheckDue(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to check reminders: %w", err)
			}
			if len(due) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("Nothing needs attention."))
				return nil
			}
			printReminders(cmd.OutOrStdout(), due, a.clock.Now())
			return nil
		},
	}
}

func weatherRemindersCmd() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Show the schedule adjusted for today's weather",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			if location == "" {
				location = a.cfg.Weather.Location
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, infoStyle.Render("Checking the weather..."))
			adjusted, snap, err := a.reminders.Adjusted(cmd.Context(), a.weather, location)
			if err != nil {
				return fmt.Errorf("weather unavailable: %w", err)
			}
			fmt.Fprintf(out, "%s: %s, %.0f°C\n", snap.Location, snap.Description, snap.TemperatureC)
			printReminders(out, reminders.Visible(adjusted, a.clock.Now(), true), a.clock.Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "city to check (default from weather.location)")
	return cmd
}

// withReminder loads the app and resolves args[0] to a reminder by id or
// unique id prefix before calling fn.
func withReminder(fn func(ctx context.Context, a *app, r model.Reminder, out io.Writer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer a.close()

		r, err := findReminder(a.reminders, args[0])
		if err != nil {
			return err
		}
		return fn(cmd.Context(), a, r, cmd.OutOrStdout())
	}
}

func findReminder(m *reminders.Manager, ref string) (model.Reminder, error) {
	if r, ok := m.Get(ref); ok {
		return r, nil
	}
	var matches []model.Reminder
	for _, r := range m.List() {
		if strings.HasPrefix(r.ID, ref) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.Reminder{}, fmt.Errorf("no reminder matches %q", ref)
	default:
		return model.Reminder{}, fmt.Errorf("%q matches %d reminders", ref, len(matches))
	}
}

func printReminders(out io.Writer, rows []model.Reminder, now time.Time) {
	if len(rows) == 0 {
		fmt.Fprintln(out, infoStyle.Render("No reminders. Use 'urbanroots reminders create' to add one."))
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()
	writeHeader(w, "ID", "PLANT", "TASK", "EVERY", "NEXT", "STATE")
	for _, r := range rows {
		state := "ok"
		switch {
		case !r.Enabled:
			state = "off"
		case r.IsOverdue(now):
			state = errorStyle.Render("overdue")
		case r.IsDue(now):
			state = "due"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%dd\t%s\t%s\n",
			shortID(r.ID), r.PlantName, r.Kind.Label(), r.FrequencyDays, r.NextDue.Local().Format("Mon 2 Jan 15:04"), state)
	}
}
