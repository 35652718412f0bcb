package database

import (
	"context"

	"tangled.org/arabica.social/brewjournal/internal/models"
)

// MockStore is a mock implementation of the Store interface for testing.
// Uses function fields to allow tests to inject custom behavior.
type MockStore struct {	// Bean operations
	CreateBeanFunc func(ctx context.Context, bean *models.CreateBeanRequest) (*models.Bean, error)
	GetBeanFunc    func(ctx context.Context, id string) (*models.Bean, error)
	ListBeansFunc  func(ctx context.Context) ([]*models.Bean, error)
	UpdateBeanFunc func(ctx context.Context, id string, bean *models.UpdateBeanRequest) (*models.Bean, error)
	DeleteBeanFunc func(ctx context.Context, id string) error
	// Brew operations
	CreateBrewFunc func(ctx context.Context, brew *models.CreateBrewRequest) (*models.Brew, error)
	GetBrewFunc    func(ctx context.Context, id string) (*models.Brew, error)
	ListBrewsFunc  func(ctx context.Context) ([]*models.Brew, error)
	UpdateBrewFunc func(ctx context.Context, id string, brew *models.CreateBrewRequest) (*models.Brew, error)
	DeleteBrewFunc func(ctx context.Context, id string) error
	// Preset operations
	CreatePresetFunc func(ctx context.Context, preset *models.CreatePresetRequest) (*models.Preset, error)
	GetPresetFunc    func(ctx context.Context, id string) (*models.Preset, error)
	ListPresetsFunc  func(ctx context.Context) ([]*models.Preset, error)
	UpdatePresetFunc func(ctx context.Context, id string, preset *models.CreatePresetRequest) (*models.Preset, error)
	DeletePresetFunc func(ctx context.Context, id string) error
	// CafeLog operations
	CreateCafeLogFunc func(ctx context.Context, entry *models.CreateCafeLogRequest) (*models.CafeLog, error)
	GetCafeLogFunc    func(ctx context.Context, id string) (*models.CafeLog, error)
	ListCafeLogsFunc  func(ctx context.Context) ([]*models.CafeLog, error)
	UpdateCafeLogFunc func(ctx context.Context, id string, entry *models.CreateCafeLogRequest) (*models.CafeLog, error)
	DeleteCafeLogFunc func(ctx context.Context, id string) error
	CloseFunc func() error
}

// Ensure MockStore implements the interface at compile time.
var _ Store = (*MockStore)(nil)

// CreateBean calls the mock function or returns nil if not set
func (m *MockStore) CreateBean(ctx context.Context, bean *models.CreateBeanRequest) (*models.Bean, error) {
	if m.CreateBeanFunc != nil {
		return m.CreateBeanFunc(ctx, bean)
	}
	return nil, nil
}

// GetBean calls the mock function or returns ErrNotFound if not set
func (m *MockStore) GetBean(ctx context.Context, id string) (*models.Bean, error) {
	if m.GetBeanFunc != nil {
		return m.GetBeanFunc(ctx, id)
	}
	return nil, ErrNotFound
}

// ListBeans calls the mock function or returns empty slice if not set
func (m *MockStore) ListBeans(ctx context.Context) ([]*models.Bean, error) {
	if m.ListBeansFunc != nil {
		return m.ListBeansFunc(ctx)
	}
	return []*models.Bean{}, nil
}

// UpdateBean calls the mock function or returns nil if not set
func (m *MockStore) UpdateBean(ctx context.Context, id string, bean *models.UpdateBeanRequest) (*models.Bean, error) {
	if m.UpdateBeanFunc != nil {
		return m.UpdateBeanFunc(ctx, id, bean)
	}
	return nil, nil
}

// DeleteBean calls the mock function or returns nil if not set
func (m *MockStore) DeleteBean(ctx context.Context, id string) error {
	if m.DeleteBeanFunc != nil {
		return m.DeleteBeanFunc(ctx, id)
	}
	return nil
}

// CreateBrew calls the mock function or returns nil if not set
func (m *MockStore) CreateBrew(ctx context.Context, brew *models.CreateBrewRequest) (*models.Brew, error) {
	if m.CreateBrewFunc != nil {
		return m.CreateBrewFunc(ctx, brew)
	}
	return nil, nil
}

// GetBrew calls the mock function or returns ErrNotFound if not set
func (m *MockStore) GetBrew(ctx context.Context, id string) (*models.Brew, error) {
	if m.GetBrewFunc != nil {
		return m.GetBrewFunc(ctx, id)
	}
	return nil, ErrNotFound
}

// ListBrews calls the mock function or returns empty slice if not set
func (m *MockStore) ListBrews(ctx context.Context) ([]*models.Brew, error) {
	if m.ListBrewsFunc != nil {
		return m.ListBrewsFunc(ctx)
	}
	return []*models.Brew{}, nil
}

// UpdateBrew calls the mock function or returns nil if not set
func (m *MockStore) UpdateBrew(ctx context.Context, id string, brew *models.CreateBrewRequest) (*models.Brew, error) {
	if m.UpdateBrewFunc != nil {
		return m.UpdateBrewFunc(ctx, id, brew)
	}
	return nil, nil
}

// DeleteBrew calls the mock function or returns nil if not set
func (m *MockStore) DeleteBrew(ctx context.Context, id string) error {
	if m.DeleteBrewFunc != nil {
		return m.DeleteBrewFunc(ctx, id)
	}
	return nil
}

// CreatePreset calls the mock function or returns nil if not set
func (m *MockStore) CreatePreset(ctx context.Context, preset *models.CreatePresetRequest) (*models.Preset, error) {
	if m.CreatePresetFunc != nil {
		return m.CreatePresetFunc(ctx, preset)
	}
	return nil, nil
}

// GetPreset calls the mock function or returns ErrNotFound if not set
func (m *MockStore) GetPreset(ctx context.Context, id string) (*models.Preset, error) {
	if m.GetPresetFunc != nil {
		return m.GetPresetFunc(ctx, id)
	}
	return nil, ErrNotFound
}

// ListPresets calls the mock function or returns empty slice if not set
func (m *MockStore) ListPresets(ctx context.Context) ([]*models.Preset, error) {
	if m.ListPresetsFunc != nil {
		return m.ListPresetsFunc(ctx)
	}
	return []*models.Preset{}, nil
}

// UpdatePreset calls the mock function or returns nil if not set
func (m *MockStore) UpdatePreset(ctx context.Context, id string, preset *models.CreatePresetRequest) (*models.Preset, error) {
	if m.UpdatePresetFunc != nil {
		return m.UpdatePresetFunc(ctx, id, preset)
	}
	return nil, nil
}

// DeletePreset calls the mock function or returns nil if not set
func (m *MockStore) DeletePreset(ctx context.Context, id string) error {
	if m.DeletePresetFunc != nil {
		return m.DeletePresetFunc(ctx, id)
	}
	return nil
}

// CreateCafeLog calls the mock function or returns nil if not set
func (m *MockStore) CreateCafeLog(ctx context.Context, entry *models.CreateCafeLogRequest) (*models.CafeLog, error) {
	if m.CreateCafeLogFunc != nil {
		return m.CreateCafeLogFunc(ctx, entry)
	}
	return nil, nil
}

// GetCafeLog calls the mock function or returns ErrNotFound if not set
func (m *MockStore) GetCafeLog(ctx context.Context, id string) (*models.CafeLog, error) {
	if m.GetCafeLogFunc != nil {
		return m.GetCafeLogFunc(ctx, id)
	}
	return nil, ErrNotFound
}

// ListCafeLogs calls the mock function or returns empty slice if not set
func (m *MockStore) ListCafeLogs(ctx context.Context) ([]*models.CafeLog, error) {
	if m.ListCafeLogsFunc != nil {
		return m.ListCafeLogsFunc(ctx)
	}
	return []*models.CafeLog{}, nil
}

// UpdateCafeLog calls the mock function or returns nil if not set
func (m *MockStore) UpdateCafeLog(ctx context.Context, id string, entry *models.CreateCafeLogRequest) (*models.CafeLog, error) {
	if m.UpdateCafeLogFunc != nil {
		return m.UpdateCafeLogFunc(ctx, id, entry)
	}
	return nil, nil
}

// DeleteCafeLog calls the mock function or returns nil if not set
func (m *MockStore) DeleteCafeLog(ctx context.Context, id string) error {
	if m.DeleteCafeLogFunc != nil {
		return m.DeleteCafeLogFunc(ctx, id)
	}
	return nil
}

// Close calls the mock function or returns nil if not set
func (m *MockStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
