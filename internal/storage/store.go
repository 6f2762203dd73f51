package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound      = errors.New("storage: not found")
	ErrInvalidKey    = errors.New("storage: invalid key")
	ErrUnknownDriver = errors.New("storage: unknown driver")
)

// Well-known keys. Each holds one JSON-encoded collection.
const (
	KeyCart              = "urbanroots_cart"
	KeyReminders         = "plantReminders"
	KeyPlants            = "myPlants"
	KeySeasonalRefresh   = "seasonalTipsLastUpdated"
	KeyGardenPreferences = "gardenPreferences"
	KeyOrders            = "orders"
	KeyCommunityPosts    = "communityPosts"
)

// Store is a durable key-value store holding JSON documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// PersistError marks a mutation that was applied in memory but could not
// be written to the store.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("storage: persist %s: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// LoadJSON decodes the value stored under key into out. A missing key
// reports found=false with a nil error.
func LoadJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and writes it under key. Failures come back as
// *PersistError.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return &PersistError{Key: key, Err: err}
	}
	if err := s.Set(ctx, key, payload); err != nil {
		return &PersistError{Key: key, Err: err}
	}
	return nil
}

type Driver string

const (
	DriverSQLite Driver = "sqlite"
	DriverFile   Driver = "file"
	DriverMemory Driver = "memory"
)

func (d Driver) IsValid() bool {
	switch d {
	case DriverSQLite, DriverFile, DriverMemory:
		return true
	default:
		return false
	}
}

// Inspector is implemented by stores that track their keys and write times.
type Inspector interface {
	Keys(ctx context.Context) ([]string, error)
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

var _ Inspector = (*SQLiteStore)(nil)

// Closer is implemented by stores holding OS resources.
type Closer interface {
	Close() error
}

// Open builds a store for the given driver. path is ignored by the memory
// driver.
func Open(driver Driver, path string) (Store, error) {
	switch driver {
	case DriverSQLite:
		return OpenSQLite(path)
	case DriverFile:
		return NewFileStore(path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func checkKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}
