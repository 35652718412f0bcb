package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"tangled.org/arabica.social/brewjournal/internal/metrics"
	"tangled.org/arabica.social/brewjournal/internal/models"
	"tangled.org/arabica.social/brewjournal/internal/tracing"
)

// RecordStore implements Store on top of a Documents backend.
type RecordStore struct {
	docs  Documents
	now   func() time.Time
	newID func() string
}

// Ensure RecordStore implements the interface at compile time.
var _ Store = (*RecordStore)(nil)

// RecordStoreOption customizes a RecordStore
type RecordStoreOption func(*RecordStore)

// WithClock overrides the clock used for createdAt/updatedAt stamps.
func WithClock(now func() time.Time) RecordStoreOption {
	return func(s *RecordStore) { s.now = now }
}

// WithIDGenerator overrides how new record ids are minted.
func WithIDGenerator(newID func() string) RecordStoreOption {
	return func(s *RecordStore) { s.newID = newID }
}

// NewRecordStore maps typed journal records onto docs.
func NewRecordStore(docs Documents, opts ...RecordStoreOption) *RecordStore {
	s := &RecordStore{
		docs:  docs,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Documents returns the backend the store writes to.
func (s *RecordStore) Documents() Documents {
	return s.docs
}

// Close closes the backend.
func (s *RecordStore) Close() error {
	return s.docs.Close()
}

// observe starts a span for one store call and returns the function that ends it.
func (s *RecordStore) observe(ctx context.Context, operation, collection string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := tracing.StoreSpan(ctx, operation, collection)
	return ctx, func(err error) {
		result := "ok"
		switch {
		case errors.Is(err, ErrNotFound):
			result = "not_found"
		case err != nil:
			result = "error"
		}
		tracing.EndWithError(span, err)
		span.End()
		metrics.StoreOperationsTotal.WithLabelValues(collection, operation, result).Inc()
		metrics.StoreOperationDuration.WithLabelValues(collection, operation).Observe(time.Since(start).Seconds())
	}
}

func putRecord(ctx context.Context, docs Documents, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", collection, err)
	}
	return docs.Put(ctx, collection, id, data)
}

func getRecord[T any](ctx context.Context, docs Documents, collection, id string) (*T, error) {
	data, err := docs.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s record %s: %w", collection, id, err)
	}
	return &v, nil
}

func listRecords[T any](ctx context.Context, docs Documents, collection string) ([]*T, error) {
	raw, err := docs.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(raw))
	for _, data := range raw {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s record: %w", collection, err)
		}
		out = append(out, &v)
	}
	return out, nil
}

// byCreated orders records by creation time, ties broken by id.
func byCreated[T any](records []*T, key func(*T) (time.Time, string), newestFirst bool) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, idi := key(records[i])
		tj, idj := key(records[j])
		if !ti.Equal(tj) {
			if newestFirst {
				return ti.After(tj)
			}
			return ti.Before(tj)
		}
		return idi < idj
	})
}

func notesOrEmpty(notes []string) []string {
	if notes == nil {
		return []string{}
	}
	return notes
}

// ========== Beans ==========

func (s *RecordStore) CreateBean(ctx context.Context, req *models.CreateBeanRequest) (bean *models.Bean, err error) {
	ctx, done := s.observe(ctx, "create", CollectionBeans)
	defer func() { done(err) }()

	now := s.now()
	bean = &models.Bean{
		ID:           s.newID(),
		Country:      req.Country,
		Region:       req.Region,
		Farm:         req.Farm,
		Variety:      req.Variety,
		Process:      req.Process,
		Altitude:     req.Altitude,
		Roaster:      req.Roaster,
		Weight:       req.Weight,
		Price:        req.Price,
		PurchaseDate: req.PurchaseDate,
		Status:       req.Status,
		FlavorNotes:  notesOrEmpty(req.FlavorNotes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err = putRecord(ctx, s.docs, CollectionBeans, bean.ID, bean); err != nil {
		return nil, err
	}
	return bean, nil
}

func (s *RecordStore) GetBean(ctx context.Context, id string) (bean *models.Bean, err error) {
	ctx, done := s.observe(ctx, "get", CollectionBeans)
	defer func() { done(err) }()
	return getRecord[models.Bean](ctx, s.docs, CollectionBeans, id)
}

// ListBeans returns beans oldest first.
func (s *RecordStore) ListBeans(ctx context.Context) (beans []*models.Bean, err error) {
	ctx, done := s.observe(ctx, "list", CollectionBeans)
	defer func() { done(err) }()

	beans, err = listRecords[models.Bean](ctx, s.docs, CollectionBeans)
	if err != nil {
		return nil, err
	}
	byCreated(beans, func(b *models.Bean) (time.Time, string) { return b.CreatedAt, b.ID }, false)
	return beans, nil
}

func (s *RecordStore) UpdateBean(ctx context.Context, id string, req *models.UpdateBeanRequest) (bean *models.Bean, err error) {
	ctx, done := s.observe(ctx, "update", CollectionBeans)
	defer func() { done(err) }()

	bean, err = getRecord[models.Bean](ctx, s.docs, CollectionBeans, id)
	if err != nil {
		return nil, err
	}
	bean.Country = req.Country
	bean.Region = req.Region
	bean.Farm = req.Farm
	bean.Variety = req.Variety
	bean.Process = req.Process
	bean.Altitude = req.Altitude
	bean.Roaster = req.Roaster
	bean.Weight = req.Weight
	bean.Price = req.Price
	bean.PurchaseDate = req.PurchaseDate
	bean.Status = req.Status
	bean.FlavorNotes = notesOrEmpty(req.FlavorNotes)
	bean.UpdatedAt = s.now()

	if err = putRecord(ctx, s.docs, CollectionBeans, id, bean); err != nil {
		return nil, err
	}
	return bean, nil
}

func (s *RecordStore) DeleteBean(ctx context.Context, id string) (err error) {
	ctx, done := s.observe(ctx, "delete", CollectionBeans)
	defer func() { done(err) }()
	return s.docs.Delete(ctx, CollectionBeans, id)
}

// ========== Brews ==========

func (s *RecordStore) CreateBrew(ctx context.Context, req *models.CreateBrewRequest) (brew *models.Brew, err error) {
	ctx, done := s.observe(ctx, "create", CollectionBrews)
	defer func() { done(err) }()

	now := s.now()
	brew = &models.Brew{ID: s.newID(), CreatedAt: now}
	applyBrew(brew, req, now)
	if err = putRecord(ctx, s.docs, CollectionBrews, brew.ID, brew); err != nil {
		return nil, err
	}
	return brew, nil
}

func applyBrew(brew *models.Brew, req *models.CreateBrewRequest, now time.Time) {
	brew.Date = req.Date
	brew.BeanID = req.BeanID
	brew.RecipeName = req.RecipeName
	brew.Grinder = req.Grinder
	brew.Clicks = req.Clicks
	brew.Dripper = req.Dripper
	brew.FilterType = req.FilterType
	brew.WaterTemp = req.WaterTemp
	brew.Dose = req.Dose
	brew.PourSteps = req.PourSteps.Clone()
	brew.TotalTime = req.TotalTime
	brew.TasteReview = req.TasteReview
	brew.CalculatedCost = req.CalculatedCost
	brew.UpdatedAt = now
	brew.Bean = nil
}

func (s *RecordStore) GetBrew(ctx context.Context, id string) (brew *models.Brew, err error) {
	ctx, done := s.observe(ctx, "get", CollectionBrews)
	defer func() { done(err) }()
	return getRecord[models.Brew](ctx, s.docs, CollectionBrews, id)
}

// ListBrews returns brews newest first.
func (s *RecordStore) ListBrews(ctx context.Context) (brews []*models.Brew, err error) {
	ctx, done := s.observe(ctx, "list", CollectionBrews)
	defer func() { done(err) }()

	brews, err = listRecords[models.Brew](ctx, s.docs, CollectionBrews)
	if err != nil {
		return nil, err
	}
	byCreated(brews, func(b *models.Brew) (time.Time, string) { return b.CreatedAt, b.ID }, true)
	return brews, nil
}

func (s *RecordStore) UpdateBrew(ctx context.Context, id string, req *models.CreateBrewRequest) (brew *models.Brew, err error) {
	ctx, done := s.observe(ctx, "update", CollectionBrews)
	defer func() { done(err) }()

	brew, err = getRecord[models.Brew](ctx, s.docs, CollectionBrews, id)
	if err != nil {
		return nil, err
	}
	applyBrew(brew, req, s.now())
	if err = putRecord(ctx, s.docs, CollectionBrews, id, brew); err != nil {
		return nil, err
	}
	return brew, nil
}

func (s *RecordStore) DeleteBrew(ctx context.Context, id string) (err error) {
	ctx, done := s.observe(ctx, "delete", CollectionBrews)
	defer func() { done(err) }()
	return s.docs.Delete(ctx, CollectionBrews, id)
}

// ========== Presets ==========

func (s *RecordStore) CreatePreset(ctx context.Context, req *models.CreatePresetRequest) (preset *models.Preset, err error) {
	ctx, done := s.observe(ctx, "create", CollectionPresets)
	defer func() { done(err) }()

	now := s.now()
	preset = &models.Preset{ID: s.newID(), CreatedAt: now}
	applyPreset(preset, req, now)
	if err = putRecord(ctx, s.docs, CollectionPresets, preset.ID, preset); err != nil {
		return nil, err
	}
	return preset, nil
}

func applyPreset(preset *models.Preset, req *models.CreatePresetRequest, now time.Time) {
	preset.RecipeName = req.RecipeName
	preset.Grinder = req.Grinder
	preset.Clicks = req.Clicks
	preset.Dripper = req.Dripper
	preset.Temp = req.Temp
	preset.PourSteps = req.PourSteps.Clone()
	preset.Notes = req.Notes
	preset.UpdatedAt = now
}

func (s *RecordStore) GetPreset(ctx context.Context, id string) (preset *models.Preset, err error) {
	ctx, done := s.observe(ctx, "get", CollectionPresets)
	defer func() { done(err) }()
	return getRecord[models.Preset](ctx, s.docs, CollectionPresets, id)
}

// ListPresets returns presets oldest first.
func (s *RecordStore) ListPresets(ctx context.Context) (presets []*models.Preset, err error) {
	ctx, done := s.observe(ctx, "list", CollectionPresets)
	defer func() { done(err) }()

	presets, err = listRecords[models.Preset](ctx, s.docs, CollectionPresets)
	if err != nil {
		return nil, err
	}
	byCreated(presets, func(p *models.Preset) (time.Time, string) { return p.CreatedAt, p.ID }, false)
	return presets, nil
}

func (s *RecordStore) UpdatePreset(ctx context.Context, id string, req *models.CreatePresetRequest) (preset *models.Preset, err error) {
	ctx, done := s.observe(ctx, "update", CollectionPresets)
	defer func() { done(err) }()

	preset, err = getRecord[models.Preset](ctx, s.docs, CollectionPresets, id)
	if err != nil {
		return nil, err
	}
	applyPreset(preset, req, s.now())
	if err = putRecord(ctx, s.docs, CollectionPresets, id, preset); err != nil {
		return nil, err
	}
	return preset, nil
}

func (s *RecordStore) DeletePreset(ctx context.Context, id string) (err error) {
	ctx, done := s.observe(ctx, "delete", CollectionPresets)
	defer func() { done(err) }()
	return s.docs.Delete(ctx, CollectionPresets, id)
}

// ========== Cafe logs ==========

func (s *RecordStore) CreateCafeLog(ctx context.Context, req *models.CreateCafeLogRequest) (entry *models.CafeLog, err error) {
	ctx, done := s.observe(ctx, "create", CollectionCafeLogs)
	defer func() { done(err) }()

	now := s.now()
	entry = &models.CafeLog{ID: s.newID(), CreatedAt: now}
	applyCafeLog(entry, req, now)
	if err = putRecord(ctx, s.docs, CollectionCafeLogs, entry.ID, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func applyCafeLog(entry *models.CafeLog, req *models.CreateCafeLogRequest, now time.Time) {
	entry.Date = req.Date
	entry.CafeName = req.CafeName
	entry.BeanName = req.BeanName
	entry.Price = req.Price
	entry.Review = req.Review
	entry.FlavorNotes = notesOrEmpty(req.FlavorNotes)
	entry.UpdatedAt = now
}

func (s *RecordStore) GetCafeLog(ctx context.Context, id string) (entry *models.CafeLog, err error) {
	ctx, done := s.observe(ctx, "get", CollectionCafeLogs)
	defer func() { done(err) }()
	return getRecord[models.CafeLog](ctx, s.docs, CollectionCafeLogs, id)
}

// ListCafeLogs returns cafe logs newest first.
func (s *RecordStore) ListCafeLogs(ctx context.Context) (logs []*models.CafeLog, err error) {
	ctx, done := s.observe(ctx, "list", CollectionCafeLogs)
	defer func() { done(err) }()

	logs, err = listRecords[models.CafeLog](ctx, s.docs, CollectionCafeLogs)
	if err != nil {
		return nil, err
	}
	byCreated(logs, func(l *models.CafeLog) (time.Time, string) { return l.CreatedAt, l.ID }, true)
	return logs, nil
}

func (s *RecordStore) UpdateCafeLog(ctx context.Context, id string, req *models.CreateCafeLogRequest) (entry *models.CafeLog, err error) {
	ctx, done := s.observe(ctx, "update", CollectionCafeLogs)
	defer func() { done(err) }()

	entry, err = getRecord[models.CafeLog](ctx, s.docs, CollectionCafeLogs, id)
	if err != nil {
		return nil, err
	}
	applyCafeLog(entry, req, s.now())
	if err = putRecord(ctx, s.docs, CollectionCafeLogs, id, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *RecordStore) DeleteCafeLog(ctx context.Context, id string) (err error) {
	ctx, done := s.observe(ctx, "delete", CollectionCafeLogs)
	defer func() { done(err) }()
	return s.docs.Delete(ctx, CollectionCafeLogs, id)
}
