package database

import (
	"context"
	"errors"

	"tangled.org/arabica.social/brewjournal/internal/models"
)

// ErrNotFound is returned when a record id does not exist in its collection.
var ErrNotFound = errors.New("record not found")

// Collection names shared by every backend
const (
	CollectionBeans    = "beans"
	CollectionBrews    = "brews"
	CollectionPresets  = "presets"
	CollectionCafeLogs = "cafe_logs"
)

// Collections lists every collection a backend must provision.
var Collections = []string{CollectionBeans, CollectionBrews, CollectionPresets, CollectionCafeLogs}

// Store defines the interface for all journal storage operations.
// All methods accept a context.Context as the first parameter to support
// cancellation, timeouts, and request-scoped values.
// Lookups of unknown ids fail with ErrNotFound.
type Store interface {
	// Bean operations
	CreateBean(ctx context.Context, bean *models.CreateBeanRequest) (*models.Bean, error)
	GetBean(ctx context.Context, id string) (*models.Bean, error)
	ListBeans(ctx context.Context) ([]*models.Bean, error)
	UpdateBean(ctx context.Context, id string, bean *models.UpdateBeanRequest) (*models.Bean, error)
	DeleteBean(ctx context.Context, id string) error

	// Brew operations
	CreateBrew(ctx context.Context, brew *models.CreateBrewRequest) (*models.Brew, error)
	GetBrew(ctx context.Context, id string) (*models.Brew, error)
	ListBrews(ctx context.Context) ([]*models.Brew, error)
	UpdateBrew(ctx context.Context, id string, brew *models.CreateBrewRequest) (*models.Brew, error)
	DeleteBrew(ctx context.Context, id string) error

	// Preset operations
	CreatePreset(ctx context.Context, preset *models.CreatePresetRequest) (*models.Preset, error)
	GetPreset(ctx context.Context, id string) (*models.Preset, error)
	ListPresets(ctx context.Context) ([]*models.Preset, error)
	UpdatePreset(ctx context.Context, id string, preset *models.CreatePresetRequest) (*models.Preset, error)
	DeletePreset(ctx context.Context, id string) error

	// Cafe log operations
	CreateCafeLog(ctx context.Context, log *models.CreateCafeLogRequest) (*models.CafeLog, error)
	GetCafeLog(ctx context.Context, id string) (*models.CafeLog, error)
	ListCafeLogs(ctx context.Context) ([]*models.CafeLog, error)
	UpdateCafeLog(ctx context.Context, id string, log *models.CreateCafeLogRequest) (*models.CafeLog, error)
	DeleteCafeLog(ctx context.Context, id string) error

	// Close the underlying storage
	Close() error
}

// Documents is the opaque key-value contract a storage backend implements.
// Values are JSON documents keyed by collection and id. List returns documents
// in no particular order.
type Documents interface {
	Put(ctx context.Context, collection, id string, data []byte) error
	Get(ctx context.Context, collection, id string) ([]byte, error)
	List(ctx context.Context, collection string) ([][]byte, error)
	Delete(ctx context.Context, collection, id string) error
	Count(ctx context.Context, collection string) (int, error)
	Close() error
}
