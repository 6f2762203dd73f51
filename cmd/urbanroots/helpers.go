package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/sandeepkv93/urbanroots/internal/cart"
	"github.com/sandeepkv93/urbanroots/internal/catalog"
	"github.com/sandeepkv93/urbanroots/internal/clock"
	"github.com/sandeepkv93/urbanroots/internal/community"
	"github.com/sandeepkv93/urbanroots/internal/config"
	"github.com/sandeepkv93/urbanroots/internal/curation"
	"github.com/sandeepkv93/urbanroots/internal/notify"
	"github.com/sandeepkv93/urbanroots/internal/plants"
	"github.com/sandeepkv93/urbanroots/internal/reminders"
	"github.com/sandeepkv93/urbanroots/internal/storage"
	"github.com/sandeepkv93/urbanroots/internal/weather"
)

// app holds the wired managers shared by the TUI and the subcommands.
type app struct {
	cfg       config.Config
	store     storage.Store
	clock     clock.Clock
	catalog   *catalog.Catalog
	cart      *cart.Manager
	plants    *plants.Manager
	reminders *reminders.Manager
	curation  *curation.Manager
	community *community.Manager
	weather   *weather.Cached
	logger    *slog.Logger
}

// initApp opens the configured store and loads every manager from it.
// toaster receives user-facing messages from all managers.
func initApp(ctx context.Context, toaster notify.Toaster) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}

	logger := slog.Default()
	c := clock.System{}
	cat := catalog.Default()

	var notifier notify.Notifier = notify.Denied{}
	if cfg.Notifications.Desktop {
		notifier = notify.NewDesktop()
	}

	rem := reminders.New(store, catalog.DefaultCare(), c, toaster, notifier, reminders.WithLogger(logger))
	a := &app{
		cfg:       cfg,
		store:     store,
		clock:     c,
		catalog:   cat,
		reminders: rem,
		cart: cart.New(store, cat, toaster,
			cart.WithLogger(logger),
			cart.WithClock(c),
			cart.WithCheckoutLatency(cfg.Checkout.Latency),
		),
		plants: plants.New(store, rem, toaster,
			plants.WithLogger(logger),
			plants.WithClock(c),
			plants.WithLatency(cfg.Plants.Latency),
		),
		curation: curation.New(store, curation.DefaultGuide(), toaster,
			curation.WithLogger(logger),
			curation.WithClock(c),
			curation.WithLatency(cfg.Curation.Latency),
		),
		community: community.New(store, toaster,
			community.WithLogger(logger),
			community.WithClock(c),
			community.WithLatency(cfg.Community.Latency),
		),
		weather: weather.NewCached(
			weather.NewRateLimited(weather.NewSimulated(c, cfg.Weather.Latency), cfg.Weather.RatePerMinute),
			c,
			cfg.Weather.CacheTTL,
		),
		logger: logger,
	}

	if err := a.load(ctx); err != nil {
		a.close()
		return nil, err
	}
	logger.Debug("app ready", "store", cfg.Store.Driver, "path", cfg.Store.Path)
	return a, nil
}

func (a *app) load(ctx context.Context) error {
	if err := a.cart.Load(ctx); err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	if err := a.reminders.Load(ctx); err != nil {
		return fmt.Errorf("failed to load reminders: %w", err)
	}
	if err := a.plants.Load(ctx); err != nil {
		return fmt.Errorf("failed to load plants: %w", err)
	}
	if err := a.community.Load(ctx); err != nil {
		return fmt.Errorf("failed to load posts: %w", err)
	}
	return nil
}

func (a *app) close() {
	if c, ok := a.store.(storage.Closer); ok {
		if err := c.Close(); err != nil {
			a.logger.Warn("close store", "error", err)
		}
	}
}

// seed derives the tip shuffle seed from the wall clock.
func seed(c clock.Clock) int64 {
	return c.Now().UnixNano() / int64(time.Millisecond)
}
