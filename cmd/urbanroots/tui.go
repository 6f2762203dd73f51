package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/urbanroots/internal/notify"
	"github.com/sandeepkv93/urbanroots/internal/scheduler"
	"github.com/sandeepkv93/urbanroots/internal/seasonal"
	"github.com/sandeepkv93/urbanroots/internal/update"
)

const feedHistory = 50

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	feed := notify.NewRecorder(true, feedHistory)
	a, err := initApp(ctx, feed)
	if err != nil {
		return err
	}
	defer a.close()

	a.reminders.RequestPermission(ctx)

	tips, err := seasonal.NewRefresher(a.store, a.clock, seed(a.clock)).Tips(ctx)
	if err != nil {
		a.logger.Warn("seasonal tips", "error", err)
	}

	poller := scheduler.NewPoller(
		a.cfg.Reminders.PollInterval,
		a.reminders.CheckDue,
		a.cfg.Reminders.SchedulerBuffer,
		scheduler.WithLogger(a.logger),
	)
	poller.Start(ctx)
	defer poller.Stop()
	// Check once on launch, then every poll interval.
	if err := poller.TriggerNow(); err != nil {
		a.logger.Warn("initial due check", "error", err)
	}

	model := update.NewModel(update.Deps{
		Catalog:   a.catalog,
		Cart:      a.cart,
		Plants:    a.plants,
		Reminders: a.reminders,
		Weather:   a.weather,
		Curation:  a.curation,
		Community: a.community,
		Poller:    poller,
		Feed:      feed,
		Clock:     a.clock,
		Tips:      tips,
		Logger:    a.logger,
	}, update.RuntimeConfigFrom(update.DefaultRuntimeConfig(), a.cfg)).WithContext(ctx)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("urbanroots failed: %w", err)
	}
	return nil
}
