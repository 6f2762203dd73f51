package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/urbanroots/internal/cart"
	"github.com/sandeepkv93/urbanroots/internal/catalog"
	"github.com/sandeepkv93/urbanroots/internal/clock"
	"github.com/sandeepkv93/urbanroots/internal/community"
	"github.com/sandeepkv93/urbanroots/internal/config"
	"github.com/sandeepkv93/urbanroots/internal/curation"
	"github.com/sandeepkv93/urbanroots/internal/notify"
	"github.com/sandeepkv93/urbanroots/internal/reminders"
	"github.com/sandeepkv93/urbanroots/internal/seasonal"
	"github.com/sandeepkv93/urbanroots/internal/storage"
)

func subcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestRootCommandTree(t *testing.T) {
	for _, name := range []string{"version", "catalog", "cart", "plants", "reminders", "tips", "garden", "community", "store"} {
		assert.NotNil(t, subcommand(rootCmd, name), "%s subcommand should exist", name)
	}

	cartCmd := subcommand(rootCmd, "cart")
	require.NotNil(t, cartCmd)
	for _, name := range []string{"show", "add", "set", "remove", "clear", "checkout", "orders"} {
		assert.NotNil(t, subcommand(cartCmd, name), "cart %s should exist", name)
	}

	remCmd := subcommand(rootCmd, "reminders")
	require.NotNil(t, remCmd)
	for _, name := range []string{"list", "create", "complete", "toggle", "delete", "due", "weather"} {
		assert.NotNil(t, subcommand(remCmd, name), "reminders %s should exist", name)
	}
	all := subcommand(remCmd, "list").Flags().Lookup("all")
	require.NotNil(t, all)
	assert.Equal(t, "include reminders not yet due or already completed", all.Usage)

	garden := subcommand(rootCmd, "garden")
	require.NotNil(t, garden)
	for _, name := range []string{"questions", "curate", "plan"} {
		assert.NotNil(t, subcommand(garden, name), "garden %s should exist", name)
	}

	comm := subcommand(rootCmd, "community")
	require.NotNil(t, comm)
	for _, name := range []string{"feed", "share", "like"} {
		assert.NotNil(t, subcommand(comm, name), "community %s should exist", name)
	}
}

func TestPersistentFlags(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, flag)
	assert.Equal(t, "info", flag.DefValue)

	flag = rootCmd.PersistentFlags().Lookup("log-format")
	require.NotNil(t, flag)
	assert.Equal(t, "console", flag.DefValue)

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("store"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("store-path"))
}

func TestVersionCmd(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)
	assert.Equal(t, "urbanroots dev\n", out.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestNewLogHandlerFormats(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLogHandler(&buf, config.LoggingConfig{Level: "info", Format: "json"}))
	logger.Info("hello", "n", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	logger = slog.New(newLogHandler(&buf, config.LoggingConfig{Level: "warn", Format: "console"}))
	logger.Info("dropped")
	logger.Warn("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "msg=kept")
}

func TestParseQuantity(t *testing.T) {
	n, err := parseQuantity("3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, raw := range []string{"0", "-2", "two"} {
		_, err := parseQuantity(raw)
		assert.Error(t, err, raw)
	}
}

func TestPrintCart(t *testing.T) {
	ctx := context.Background()
	mgr := cart.New(storage.NewMemoryStore(), catalog.Default(), notify.NewRecorder(true, 0))

	var out bytes.Buffer
	printCart(&out, mgr)
	assert.Contains(t, out.String(), "Your cart is empty.")

	require.NoError(t, mgr.Add(ctx, "1", 2))
	out.Reset()
	printCart(&out, mgr)
	text := out.String()
	assert.Contains(t, text, "Tulsi (Holy Basil)")
	assert.Contains(t, text, "Subtotal: ₹240.00")
	assert.Contains(t, text, "Delivery: ₹99.00")
	assert.Contains(t, text, "Total: ₹339.00")
	assert.Contains(t, text, "Add ₹259.00 more for free delivery")
}

func TestPrintToasts(t *testing.T) {
	var out bytes.Buffer
	toaster := printToasts(&out)
	toaster.Toast(notify.Toast{Level: notify.LevelSuccess, Title: "Added to cart", Body: "Mint (Pudina)"})
	assert.Contains(t, out.String(), "Added to cart: Mint (Pudina)")
}

func TestFindReminder(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	mgr := reminders.New(store, catalog.DefaultCare(), clock.System{}, notify.NewRecorder(true, 0), notify.Denied{})
	require.NoError(t, mgr.Load(ctx))

	r, err := mgr.Create(ctx, "p1", "Tulsi", "Herb", "water")
	require.NoError(t, err)

	got, err := findReminder(mgr, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	got, err = findReminder(mgr, r.ID[:6])
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	_, err = findReminder(mgr, "zzzz")
	assert.Error(t, err)
}

func TestTipsMarkdown(t *testing.T) {
	md := tipsMarkdown(seasonal.SeasonMonsoon, []seasonal.Tip{
		{Title: "Check drainage", Description: "Clear pot holes.", Category: seasonal.CategoryEco, Season: seasonal.SeasonMonsoon},
	})
	assert.True(t, strings.HasPrefix(md, "# Tips for monsoon"))
	assert.Contains(t, md, "## Check drainage")
	assert.Contains(t, md, "Clear pot holes.")

	assert.Contains(t, tipsMarkdown(seasonal.SeasonSummer, nil), "_No tips available._")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "12345678", shortID("123456789abc"))
}

func TestSuggestedCare(t *testing.T) {
	assert.Equal(t, "water every 2d, fertilize every 30d", suggestedCare(catalog.DefaultCare().Suggested("Herb")))
	assert.Equal(t, "", suggestedCare(nil))
}

func TestPlanMarkdown(t *testing.T) {
	g := curation.DefaultGuide()
	plan := g.Recommend(curation.Answers{GardenType: "herb", PreferredOption: "ready", Location: "Pune"})
	md := planMarkdown(plan, g.Questions)
	assert.True(t, strings.HasPrefix(md, "# Your garden plan"))
	assert.Contains(t, md, "_Cozy herb corner_")
	assert.Contains(t, md, "- **Tulsi (Holy Basil)** (")
	assert.Contains(t, md, "Based on your location (Pune)")
	assert.Contains(t, md, "- **Herb Garden Starter Kit** ₹1299:")

	var out bytes.Buffer
	printPlan(&out, plan, g.Questions, true)
	assert.Equal(t, md, out.String())
}

func TestWriteQuestions(t *testing.T) {
	var out bytes.Buffer
	writeQuestions(&out, curation.DefaultGuide().Questions)
	text := out.String()
	assert.Contains(t, text, "--garden")
	assert.Contains(t, text, "Cozy herb corner")
	assert.Contains(t, text, "--option")
}

func TestPrintFeedAndFindPost(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(time.Date(2026, 7, 14, 18, 0, 0, 0, time.UTC))
	mgr := community.New(storage.NewMemoryStore(), nil, community.WithClock(clk), community.WithLatency(0))
	require.NoError(t, mgr.Load(ctx))

	var out bytes.Buffer
	printFeed(&out, nil, clk.Now())
	assert.Contains(t, out.String(), "Be the first to share")

	p, err := mgr.Share(ctx, community.Draft{Author: "Asha", Content: "Tulsi\nsprouted", Region: "west india", Tags: []string{"herbs"}})
	require.NoError(t, err)
	clk.Advance(2 * time.Hour)

	posts, err := mgr.Feed("", community.SortRecent)
	require.NoError(t, err)
	out.Reset()
	printFeed(&out, posts, clk.Now())
	text := out.String()
	assert.Contains(t, text, shortID(p.ID))
	assert.Contains(t, text, "West India")
	assert.Contains(t, text, "2 hours ago")
	assert.Contains(t, text, "Tulsi sprouted #Herbs")

	id, err := findPost(mgr, p.ID[:6])
	require.NoError(t, err)
	assert.Equal(t, p.ID, id)
	_, err = findPost(mgr, "zzzz")
	assert.Error(t, err)
}

func TestPrintStoreKeys(t *testing.T) {
	ctx := context.Background()
	s, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "urbanroots.db"))
	require.NoError(t, err)
	defer s.Close()

	var out bytes.Buffer
	require.NoError(t, printStoreKeys(ctx, &out, s, s))
	assert.Contains(t, out.String(), "Nothing saved yet.")

	require.NoError(t, s.Set(ctx, storage.KeyGardenPreferences, []byte(`{"gardenType":"herb"}`)))
	out.Reset()
	require.NoError(t, printStoreKeys(ctx, &out, s, s))
	text := out.String()
	assert.Contains(t, text, "KEY")
	assert.Contains(t, text, storage.KeyGardenPreferences)
	assert.Contains(t, text, "21")
}
