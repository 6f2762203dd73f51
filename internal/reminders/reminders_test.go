package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/urbanroots/internal/catalog"
	"github.com/sandeepkv93/urbanroots/internal/clock"
	"github.com/sandeepkv93/urbanroots/internal/model"
	"github.com/sandeepkv93/urbanroots/internal/notify"
	"github.com/sandeepkv93/urbanroots/internal/storage"
	"github.com/sandeepkv93/urbanroots/internal/weather"
)

type fixture struct {
	mgr   *Manager
	store *storage.MemoryStore
	rec   *notify.Recorder
	clock *clock.Fake
}

func newFixture(t *testing.T, grant bool) fixture {
	t.Helper()
	store := storage.NewMemoryStore()
	rec := notify.NewRecorder(grant, 0)
	clk := clock.NewFake(time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC))
	mgr := New(store, catalog.DefaultCare(), clk, rec, rec)
	require.NoError(t, mgr.Load(context.Background()))
	return fixture{mgr: mgr, store: store, rec: rec, clock: clk}
}

func storedReminders(t *testing.T, s storage.Store) []model.Reminder {
	t.Helper()
	var out []model.Reminder
	_, err := storage.LoadJSON(context.Background(), s, storage.KeyReminders, &out)
	require.NoError(t, err)
	return out
}

func TestCreateUsesCareDefaults(t *testing.T) {
	f := newFixture(t, false)
	now := f.clock.Now()

	rem, err := f.mgr.Create(context.Background(), "p-1", "Tulsi", "Herb", model.ReminderKindWater)
	require.NoError(t, err)
	assert.NotEmpty(t, rem.ID)
	assert.Equal(t, 2, rem.FrequencyDays)
	assert.Equal(t, "Keep soil slightly moist", rem.Notes)
	assert.True(t, rem.Enabled)
	assert.Nil(t, rem.LastCompleted)
	assert.True(t, rem.NextDue.Equal(now.Add(24*time.Hour)))

	stored := storedReminders(t, f.store)
	require.Len(t, stored, 1)
	assert.Equal(t, rem.ID, stored[0].ID)
}

func TestSuggestions(t *testing.T) {
	f := newFixture(t, false)
	got := f.mgr.Suggestions("Herb")
	require.Len(t, got, 2)
	assert.Equal(t, model.ReminderKindWater, got[0].Kind)
	assert.Equal(t, 2, got[0].FrequencyDays)
	assert.Equal(t, model.ReminderKindFertilize, got[1].Kind)
	assert.Empty(t, f.mgr.Suggestions("Tree"))
}

func TestCreateFallsBackToWeekly(t *testing.T) {
	f := newFixture(t, false)
	rem, err := f.mgr.Create(context.Background(), "p-9", "Bonsai", "Tree", model.ReminderKindPrune)
	require.NoError(t, err)
	assert.Equal(t, catalog.FallbackFrequencyDays, rem.FrequencyDays)
	assert.Empty(t, rem.Notes)
}

func TestCreateValidates(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.mgr.Create(ctx, "p-1", "Tulsi", "Herb", model.ReminderKind("sing"))
	require.ErrorIs(t, err, model.ErrInvalidReminderKind)

	_, err = f.mgr.Create(ctx, " ", "Tulsi", "Herb", model.ReminderKindWater)
	require.ErrorIs(t, err, ErrInvalidPlant)
	assert.Empty(t, f.mgr.List())
}

func TestCompleteAdvancesByFrequency(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	rem, err := f.mgr.Create(ctx, "p-2", "Aloe Vera", "Succulent", model.ReminderKindWater)
	require.NoError(t, err)

	at := f.clock.Advance(36 * time.Hour)
	done, err := f.mgr.Complete(ctx, rem.ID)
	require.NoError(t, err)
	require.NotNil(t, done.LastCompleted)
	assert.True(t, done.LastCompleted.Equal(at))
	assert.Equal(t, 14*24*time.Hour, done.NextDue.Sub(at))
	assert.False(t, done.IsDue(at))

	last, _ := f.rec.Last()
	assert.Equal(t, "Water Plant completed for Aloe Vera!", last.Title)
	assert.Equal(t, "Next reminder in 14 days", last.Body)
}

func TestCompleteRejectsDisabled(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	rem, err := f.mgr.Create(ctx, "p-1", "Tulsi", "Herb", model.ReminderKindWater)
	require.NoError(t, err)
	require.NoError(t, f.mgr.SetEnabled(ctx, rem.ID, false))
	f.clock.Advance(48 * time.Hour)

	_, err = f.mgr.Complete(ctx, rem.ID)
	require.ErrorIs(t, err, ErrReminderDisabled)

	got, ok := f.mgr.Get(rem.ID)
	require.True(t, ok)
	assert.Nil(t, got.LastCompleted)
	assert.True(t, got.NextDue.Equal(rem.NextDue))
	assert.Nil(t, storedReminders(t, f.store)[0].LastCompleted)
}

func TestUnknownReminder(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, err := f.mgr.Complete(ctx, "nope")
	require.ErrorIs(t, err, ErrReminderNotFound)
	require.ErrorIs(t, f.mgr.SetEnabled(ctx, "nope", false), ErrReminderNotFound)
	require.ErrorIs(t, f.mgr.Delete(ctx, "nope"), ErrReminderNotFound)
}

func TestDisabledReminderNeverDue(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	rem, err := f.mgr.Create(ctx, "p-1", "Tulsi", "Herb", model.ReminderKindWater)
	require.NoError(t, err)
	require.NoError(t, f.mgr.SetEnabled(ctx, rem.ID, false))

	last, _ := f.rec.Last()
	assert.Equal(t, "Reminder disabled", last.Title)

	for _, d := range []time.Duration{2 * 24 * time.Hour, 30 * 24 * time.Hour, 400 * 24 * time.Hour} {
		f.clock.Advance(d)
		due, err := f.mgr.CheckDue(ctx)
		require.NoError(t, err)
		assert.Empty(t, due)
	}
	assert.Len(t, f.mgr.Visible(true), 1, "still listed for management")
}

func TestCheckDueSingleWithPermission(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	assert.Equal(t, notify.PermissionGranted, f.mgr.RequestPermission(ctx))

	_, err := f.mgr.Create(ctx, "p-1", "Tulsi", "Herb", model.ReminderKindWater)
	require.NoError(t, err)

	due, err := f.mgr.CheckDue(ctx)
	require.NoError(t, err)
	assert.Empty(t, due, "first occurrence is a day away")

	f.clock.Advance(25 * time.Hour)
	due, err = f.mgr.CheckDue(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)

	sent := f.rec.Notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "Time to water plant", sent[0].Title)
	assert.Equal(t, "Your Tulsi needs attention!", sent[0].Body)

	last, _ := f.rec.Last()
	assert.Equal(t, "Time to water plant", last.Title)
}

func TestCheckDueManyPermissionDenied(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	assert.Equal(t, notify.PermissionDenied, f.mgr.RequestPermission(ctx))

	_, err := f.mgr.Create(ctx, "p-1", "Tulsi", "Herb", model.ReminderKindWater)
	require.NoError(t, err)
	_, err = f.mgr.Create(ctx, "p-3", "Mint", "Herb", model.ReminderKindFertilize)
	require.NoError(t, err)

	f.clock.Advance(48 * time.Hour)
	due, err := f.mgr.CheckDue(ctx)
	require.NoError(t, err)
	assert.Len(t, due, 2)
	assert.Empty(t, f.rec.Notifications())

	last, _ := f.rec.Last()
	assert.Equal(t, "2 plants need attention!", last.Title)
}

func TestCheckDueReadsStore(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	past := f.clock.Now().Add(-time.Hour)
	require.NoError(t, storage.SaveJSON(ctx, f.store, storage.KeyReminders, []model.Reminder{{
		ID: "ext", PlantID: "p", PlantName: "Curry Leaf", Kind: model.ReminderKindCheck,
		FrequencyDays: 14, NextDue: past, Enabled: true,
	}}))

	due, err := f.mgr.CheckDue(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "ext", due[0].ID)
}

func TestCompletedReminderNotDueAgain(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	rem, err := f.mgr.Create(ctx, "p-1", "Tulsi", "Herb", model.ReminderKindWater)
	require.NoError(t, err)

	f.clock.Advance(30 * time.Hour)
	assert.Len(t, f.mgr.Due(), 1)
	_, err = f.mgr.Complete(ctx, rem.ID)
	require.NoError(t, err)
	assert.Empty(t, f.mgr.Due())

	f.clock.Advance(2 * 24 * time.Hour)
	assert.Len(t, f.mgr.Due(), 1)
}

func TestDeleteAndDeleteForPlant(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	a, err := f.mgr.Create(ctx, "p-1", "Tulsi", "Herb", model.ReminderKindWater)
	require.NoError(t, err)
	_, err = f.mgr.Create(ctx, "p-1", "Tulsi", "Herb", model.ReminderKindFertilize)
	require.NoError(t, err)
	_, err = f.mgr.Create(ctx, "p-2", "Aloe Vera", "Succulent", model.ReminderKindWater)
	require.NoError(t, err)

	require.NoError(t, f.mgr.Delete(ctx, a.ID))
	last, _ := f.rec.Last()
	assert.Equal(t, "Reminder deleted", last.Title)

	n, err := f.mgr.DeleteForPlant(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rest := storedReminders(t, f.store)
	require.Len(t, rest, 1)
	assert.Equal(t, "p-2", rest[0].PlantID)

	n, err = f.mgr.DeleteForPlant(ctx, "p-404")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListSortedAndLoadRoundTrip(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	slow, err := f.mgr.Create(ctx, "p-2", "Aloe Vera", "Succulent", model.ReminderKindWater)
	require.NoError(t, err)
	fast, err := f.mgr.Create(ctx, "p-1", "Tulsi", "Herb", model.ReminderKindWater)
	require.NoError(t, err)

	f.clock.Advance(2 * 24 * time.Hour)
	_, err = f.mgr.Complete(ctx, slow.ID)
	require.NoError(t, err)

	list := f.mgr.List()
	require.Len(t, list, 2)
	assert.Equal(t, fast.ID, list[0].ID)
	assert.Equal(t, slow.ID, list[1].ID)

	again := New(f.store, catalog.DefaultCare(), f.clock, nil, nil)
	require.NoError(t, again.Load(ctx))
	reloaded := again.List()
	require.Len(t, reloaded, 2)
	assert.Equal(t, fast.ID, reloaded[0].ID)
	require.NotNil(t, reloaded[1].LastCompleted)
}

func TestLoadCorruptStartsEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), storage.KeyReminders, []byte("not json")))
	mgr := New(store, catalog.DefaultCare(), clock.NewFake(time.Now()), nil, nil)
	require.NoError(t, mgr.Load(context.Background()))
	assert.Empty(t, mgr.List())
}

func TestPersistFailureKeepsChange(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	rem, err := f.mgr.Create(ctx, "p-1", "Tulsi", "Herb", model.ReminderKindWater)
	require.NoError(t, err)

	boom := errors.New("disk full")
	f.store.SetFailWrites(boom)
	err = f.mgr.SetEnabled(ctx, rem.ID, false)
	var pe *storage.PersistError
	require.ErrorAs(t, err, &pe)

	got, ok := f.mgr.Get(rem.ID)
	require.True(t, ok)
	assert.False(t, got.Enabled)
}

func TestAdjustedLeavesStoreUntouched(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	rem, err := f.mgr.Create(ctx, "p-1", "Tulsi", "Herb", model.ReminderKindWater)
	require.NoError(t, err)

	rainy := weather.Fixed(model.WeatherSnapshot{Description: "Rain", Rain: true})
	adjusted, snap, err := f.mgr.Adjusted(ctx, rainy, "Bengaluru")
	require.NoError(t, err)
	assert.True(t, snap.Rain)
	require.Len(t, adjusted, 1)
	assert.True(t, adjusted[0].NextDue.Equal(rem.NextDue.Add(24*time.Hour)))

	got, _ := f.mgr.Get(rem.ID)
	assert.True(t, got.NextDue.Equal(rem.NextDue))
	assert.True(t, storedReminders(t, f.store)[0].NextDue.Equal(rem.NextDue))
}

type failingProvider struct{}

func (failingProvider) Name() string { return "failing" }

func (failingProvider) Current(context.Context, string) (model.WeatherSnapshot, error) {
	return model.WeatherSnapshot{}, errors.New("timeout")
}

func TestAdjustedWeatherFailureFallsBack(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, err := f.mgr.Create(ctx, "p-1", "Tulsi", "Herb", model.ReminderKindWater)
	require.NoError(t, err)

	list, _, err := f.mgr.Adjusted(ctx, failingProvider{}, "Bengaluru")
	require.Error(t, err)
	assert.Len(t, list, 1)
}
