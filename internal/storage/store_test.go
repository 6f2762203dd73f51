package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := OpenSQLite(filepath.Join(dir, "urbanroots-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	file, err := NewFileStore(filepath.Join(dir, "state", "urbanroots.json"))
	require.NoError(t, err)

	return map[string]Store{
		"sqlite": sqlite,
		"file":   file,
		"memory": NewMemoryStore(),
	}
}

func TestStoreGetSetDelete(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, KeyReminders)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(ctx, KeyReminders, []byte(`[{"id":"r1"}]`)))
			got, err := store.Get(ctx, KeyReminders)
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"r1"}]`, string(got))

			require.NoError(t, store.Set(ctx, KeyReminders, []byte(`[]`)))
			got, err = store.Get(ctx, KeyReminders)
			require.NoError(t, err)
			assert.JSONEq(t, `[]`, string(got))

			require.NoError(t, store.Delete(ctx, KeyReminders))
			_, err = store.Get(ctx, KeyReminders)
			require.ErrorIs(t, err, ErrNotFound)
			require.ErrorIs(t, store.Delete(ctx, KeyReminders), ErrNotFound)
		})
	}
}

func TestStoreRejectsEmptyKey(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, store.Set(context.Background(), "", []byte(`1`)), ErrInvalidKey)
		})
	}
}

func TestLoadAndSaveJSON(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var items []string
	found, err := LoadJSON(ctx, store, KeyPlants, &items)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SaveJSON(ctx, store, KeyPlants, []string{"tulsi", "mint"}))
	found, err = LoadJSON(ctx, store, KeyPlants, &items)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"tulsi", "mint"}, items)

	require.NoError(t, store.Set(ctx, KeyPlants, []byte(`{not json`)))
	_, err = LoadJSON(ctx, store, KeyPlants, &items)
	require.Error(t, err)
}

func TestSaveJSONWrapsPersistError(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("disk full")
	store.SetFailWrites(boom)

	err := SaveJSON(context.Background(), store, KeyCart, []int{1})
	var pe *PersistError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KeyCart, pe.Key)
	assert.ErrorIs(t, err, boom)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urbanroots.json")
	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(context.Background(), KeyCart, []byte(`[{"id":"1","quantity":2}]`)))

	second, err := NewFileStore(path)
	require.NoError(t, err)
	got, err := second.Get(context.Background(), KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","quantity":2}]`, string(got))
}

func TestFileStoreRejectsInvalidJSON(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "s.json"))
	require.NoError(t, err)
	require.Error(t, store.Set(context.Background(), KeyCart, []byte(`nope`)))
}

func TestSQLiteStoreKeysAndUpdatedAt(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "keys.db"))
	require.NoError(t, err)
	defer store.Close()

	fixed := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, KeyReminders, []byte(`[]`)))
	require.NoError(t, store.Set(ctx, KeyCart, []byte(`[]`)))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyReminders, KeyCart}, keys)

	at, err := store.UpdatedAt(ctx, KeyCart)
	require.NoError(t, err)
	assert.True(t, at.Equal(fixed))

	_, err = store.UpdatedAt(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenDrivers(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(DriverMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(DriverFile, filepath.Join(dir, "f.json"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(DriverSQLite, filepath.Join(dir, "nested", "s.db"))
	require.NoError(t, err)
	require.NoError(t, s.(Closer).Close())

	_, err = Open(Driver("redis"), "")
	require.ErrorIs(t, err, ErrUnknownDriver)
	assert.False(t, Driver("redis").IsValid())
}
