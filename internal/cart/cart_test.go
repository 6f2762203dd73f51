package cart

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/urbanroots/internal/catalog"
	"github.com/sandeepkv93/urbanroots/internal/clock"
	"github.com/sandeepkv93/urbanroots/internal/model"
	"github.com/sandeepkv93/urbanroots/internal/notify"
	"github.com/sandeepkv93/urbanroots/internal/storage"
)

type fakeCatalog map[string]model.CatalogItem

func (f fakeCatalog) Resolve(id string) (model.CatalogItem, bool) {
	item, ok := f[id]
	return item, ok
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		"P1": {ID: "P1", Name: "Tulsi", Price: decimal.NewFromInt(120), Category: "Herb"},
		"P2": {ID: "P2", Name: "Aloe Vera", Price: decimal.RequireFromString("200.50"), Category: "Succulent"},
		"P3": {ID: "P3", Name: "Coriander", Price: decimal.NewFromInt(90), Category: "Herb"},
	}
}

type fixture struct {
	mgr   *Manager
	store *storage.MemoryStore
	rec   *notify.Recorder
	clock *clock.Fake
}

func newFixture(t *testing.T, resolver catalog.Resolver) fixture {
	t.Helper()
	store := storage.NewMemoryStore()
	rec := notify.NewRecorder(false, 0)
	clk := clock.NewFake(time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC))
	mgr := New(store, resolver, rec, WithClock(clk), WithCheckoutLatency(1500*time.Millisecond))
	require.NoError(t, mgr.Load(context.Background()))
	return fixture{mgr: mgr, store: store, rec: rec, clock: clk}
}

func storedLines(t *testing.T, s storage.Store) []model.CartLine {
	t.Helper()
	var lines []model.CartLine
	_, err := storage.LoadJSON(context.Background(), s, storage.KeyCart, &lines)
	require.NoError(t, err)
	return lines
}

func TestCartScenarioAddMergeAndZeroRemoves(t *testing.T) {
	f := newFixture(t, testCatalog())
	ctx := context.Background()

	require.NoError(t, f.mgr.Add(ctx, "P1", 2))
	assert.Equal(t, 2, f.mgr.ItemCount())

	require.NoError(t, f.mgr.Add(ctx, "P1", 3))
	lines := f.mgr.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)

	require.NoError(t, f.mgr.UpdateQuantity(ctx, "P1", 0))
	assert.Empty(t, f.mgr.Lines())
	assert.True(t, f.mgr.Total().IsZero())
	assert.Empty(t, storedLines(t, f.store))
}

func TestAddSameItemSumsQuantities(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 20; round++ {
		f := newFixture(t, testCatalog())
		ctx := context.Background()
		want := 0
		for i := 0; i < 1+rng.Intn(8); i++ {
			q := 1 + rng.Intn(5)
			want += q
			require.NoError(t, f.mgr.Add(ctx, "P2", q))
		}
		lines := f.mgr.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, want, lines[0].Quantity)
		assert.Equal(t, want, f.mgr.ItemCount())
	}
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	f := newFixture(t, testCatalog())
	ctx := context.Background()
	require.NoError(t, f.mgr.Add(ctx, "P3", 1))
	require.NoError(t, f.mgr.Add(ctx, "P1", 1))
	require.NoError(t, f.mgr.Add(ctx, "P3", 1))

	lines := f.mgr.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "P3", lines[0].ItemID)
	assert.Equal(t, "P1", lines[1].ItemID)
}

func TestAddUnknownItem(t *testing.T) {
	f := newFixture(t, testCatalog())
	err := f.mgr.Add(context.Background(), "nope", 1)
	require.ErrorIs(t, err, ErrItemNotFound)
	assert.Empty(t, f.mgr.Lines())

	last, ok := f.rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.LevelError, last.Level)
	assert.Equal(t, "Product not found", last.Title)

	_, err = f.store.Get(context.Background(), storage.KeyCart)
	require.ErrorIs(t, err, storage.ErrNotFound, "a rejected add must not write")
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t, testCatalog())
	require.ErrorIs(t, f.mgr.Add(context.Background(), "P1", 0), model.ErrInvalidQuantity)
	assert.Empty(t, f.mgr.Lines())
}

func TestAddToastsAndSnapshots(t *testing.T) {
	cat := testCatalog()
	f := newFixture(t, cat)
	require.NoError(t, f.mgr.Add(context.Background(), "P1", 1))

	last, ok := f.rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Tulsi added to cart", last.Title)
	assert.Equal(t, notify.LevelSuccess, last.Level)

	item := cat["P1"]
	item.Price = decimal.NewFromInt(1000)
	cat["P1"] = item

	line, ok := f.mgr.Line("P1")
	require.True(t, ok)
	assert.True(t, line.Price.Equal(decimal.NewFromInt(120)), "price is frozen at add time")
	assert.Equal(t, "Herb", line.Category)
}

func TestUpdateQuantityNegativeRemoves(t *testing.T) {
	f := newFixture(t, testCatalog())
	ctx := context.Background()
	require.NoError(t, f.mgr.Add(ctx, "P1", 2))
	require.NoError(t, f.mgr.Add(ctx, "P2", 1))

	require.NoError(t, f.mgr.UpdateQuantity(ctx, "P1", -5))
	_, ok := f.mgr.Line("P1")
	assert.False(t, ok)
	assert.Equal(t, 1, f.mgr.ItemCount())
}

func TestUpdateQuantitySetsValue(t *testing.T) {
	f := newFixture(t, testCatalog())
	ctx := context.Background()
	require.NoError(t, f.mgr.Add(ctx, "P1", 2))
	require.NoError(t, f.mgr.UpdateQuantity(ctx, "P1", 7))

	line, ok := f.mgr.Line("P1")
	require.True(t, ok)
	assert.Equal(t, 7, line.Quantity)
	assert.Equal(t, 7, storedLines(t, f.store)[0].Quantity)

	require.NoError(t, f.mgr.UpdateQuantity(ctx, "missing", 3))
	assert.Len(t, f.mgr.Lines(), 1)
}

func TestRemoveAbsentIsSilent(t *testing.T) {
	f := newFixture(t, testCatalog())
	require.NoError(t, f.mgr.Remove(context.Background(), "P1"))
	assert.Empty(t, f.rec.Toasts())
}

func TestRemoveToasts(t *testing.T) {
	f := newFixture(t, testCatalog())
	ctx := context.Background()
	require.NoError(t, f.mgr.Add(ctx, "P2", 1))
	require.NoError(t, f.mgr.Remove(ctx, "P2"))

	last, _ := f.rec.Last()
	assert.Equal(t, "Aloe Vera removed from cart", last.Title)
	assert.Empty(t, storedLines(t, f.store))
}

func TestClear(t *testing.T) {
	f := newFixture(t, testCatalog())
	ctx := context.Background()
	require.NoError(t, f.mgr.Add(ctx, "P1", 1))
	require.NoError(t, f.mgr.Add(ctx, "P2", 4))
	require.NoError(t, f.mgr.Clear(ctx))

	assert.Empty(t, f.mgr.Lines())
	assert.Equal(t, 0, f.mgr.ItemCount())
	assert.Empty(t, storedLines(t, f.store))
	last, _ := f.rec.Last()
	assert.Equal(t, "Cart cleared", last.Title)
}

func TestTotalIsSumOfLines(t *testing.T) {
	f := newFixture(t, testCatalog())
	ctx := context.Background()
	assert.True(t, f.mgr.Total().IsZero())

	require.NoError(t, f.mgr.Add(ctx, "P1", 2))
	require.NoError(t, f.mgr.Add(ctx, "P2", 3))
	require.NoError(t, f.mgr.Add(ctx, "P3", 1))

	want := decimal.Zero
	for _, line := range f.mgr.Lines() {
		want = want.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	assert.True(t, f.mgr.Total().Equal(want))
	assert.Equal(t, "931.5", f.mgr.Total().String())
}

func TestLoadRestoresPersistedCart(t *testing.T) {
	f := newFixture(t, testCatalog())
	ctx := context.Background()
	require.NoError(t, f.mgr.Add(ctx, "P1", 2))
	require.NoError(t, f.mgr.Add(ctx, "P3", 1))

	again := New(f.store, testCatalog(), nil)
	require.NoError(t, again.Load(ctx))
	want, got := f.mgr.Lines(), again.Lines()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ItemID, got[i].ItemID)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.True(t, want[i].Price.Equal(got[i].Price))
	}
}

func TestLoadNormalizesStoredLines(t *testing.T) {
	store := storage.NewMemoryStore()
	raw, err := json.Marshal([]model.CartLine{
		{ItemID: "P1", Name: "Tulsi", Price: decimal.NewFromInt(120), Quantity: 1},
		{ItemID: "P2", Name: "Aloe", Price: decimal.NewFromInt(200), Quantity: 0},
		{ItemID: "P1", Name: "Tulsi", Price: decimal.NewFromInt(120), Quantity: 2},
	})
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), storage.KeyCart, raw))

	mgr := New(store, testCatalog(), nil)
	require.NoError(t, mgr.Load(context.Background()))
	lines := mgr.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestLoadCorruptDataStartsEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), storage.KeyCart, []byte(`{broken`)))
	mgr := New(store, testCatalog(), nil)
	require.NoError(t, mgr.Load(context.Background()))
	assert.Empty(t, mgr.Lines())
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	f := newFixture(t, testCatalog())
	boom := errors.New("quota exceeded")
	f.store.SetFailWrites(boom)

	err := f.mgr.Add(context.Background(), "P1", 2)
	var pe *storage.PersistError
	require.ErrorAs(t, err, &pe)
	require.ErrorIs(t, err, boom)

	line, ok := f.mgr.Line("P1")
	require.True(t, ok, "in-memory cart keeps the change")
	assert.Equal(t, 2, line.Quantity)

	last, _ := f.rec.Last()
	assert.Equal(t, notify.LevelError, last.Level)
}
