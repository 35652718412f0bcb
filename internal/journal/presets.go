package journal

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"tangled.org/arabica.social/brewjournal/internal/database"
	"tangled.org/arabica.social/brewjournal/internal/events"
	"tangled.org/arabica.social/brewjournal/internal/metrics"
	"tangled.org/arabica.social/brewjournal/internal/models"
)

func (s *Service) CreatePreset(ctx context.Context, req *models.CreatePresetRequest) (*models.Preset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	preset, err := s.store.CreatePreset(ctx, req)
	if err != nil {
		return nil, err
	}
	metrics.PresetOperationsTotal.WithLabelValues("create").Inc()
	s.publish(events.PresetCreated, preset.ID)
	return preset, nil
}

func (s *Service) GetPreset(ctx context.Context, id string) (*models.Preset, error) {
	return s.store.GetPreset(ctx, id)
}

// ListPresets returns presets oldest first.
func (s *Service) ListPresets(ctx context.Context) ([]*models.Preset, error) {
	return s.store.ListPresets(ctx)
}

func (s *Service) UpdatePreset(ctx context.Context, id string, req *models.CreatePresetRequest) (*models.Preset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	preset, err := s.store.UpdatePreset(ctx, id, req)
	if err != nil {
		return nil, err
	}
	metrics.PresetOperationsTotal.WithLabelValues("update").Inc()
	s.publish(events.PresetUpdated, id)
	return preset, nil
}

func (s *Service) DeletePreset(ctx context.Context, id string) error {
	if err := s.store.DeletePreset(ctx, id); err != nil {
		return err
	}
	metrics.PresetOperationsTotal.WithLabelValues("delete").Inc()
	metrics.DeletionsTotal.WithLabelValues("presets").Inc()
	s.publish(events.PresetDeleted, id)
	return nil
}

// ImportPresets validates every preset before storing any of them. If a store
// write fails, the presets already stored by this import are deleted again.
func (s *Service) ImportPresets(ctx context.Context, reqs []models.CreatePresetRequest) ([]*models.Preset, error) {
	for i := range reqs {
		if err := reqs[i].Validate(); err != nil {
			return nil, err
		}
	}

	created := make([]*models.Preset, 0, len(reqs))
	for i := range reqs {
		preset, err := s.CreatePreset(ctx, &reqs[i])
		if err != nil {
			s.rollbackPresets(ctx, created)
			return nil, err
		}
		created = append(created, preset)
	}
	return created, nil
}

func (s *Service) rollbackPresets(ctx context.Context, presets []*models.Preset) {
	ctx = context.WithoutCancel(ctx)
	for _, p := range presets {
		if err := s.DeletePreset(ctx, p.ID); err != nil {
			log.Error().Err(err).Str("preset_id", p.ID).Msg("Failed to roll back imported preset")
		}
	}
}

// FindPreset resolves ref as a preset id, falling back to a case-insensitive
// recipe name match.
func (s *Service) FindPreset(ctx context.Context, ref string) (*models.Preset, error) {
	preset, err := s.store.GetPreset(ctx, ref)
	if err == nil {
		return preset, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	presets, err := s.store.ListPresets(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(ref)
	for _, p := range presets {
		if strings.EqualFold(strings.TrimSpace(p.RecipeName), name) {
			return p, nil
		}
	}
	return nil, database.ErrNotFound
}

// ApplyPreset builds a brew draft from a preset, dated today. A preset
// without readable pour steps yields the single-step fallback sequence.
// When beanID is set the bean must exist.
func (s *Service) ApplyPreset(ctx context.Context, ref, beanID string) (*models.CreateBrewRequest, error) {
	preset, err := s.FindPreset(ctx, ref)
	if err != nil {
		return nil, err
	}

	if beanID != "" {
		if _, err := s.store.GetBean(ctx, beanID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, ErrBeanNotFound
			}
			return nil, err
		}
	}

	steps := preset.PourSteps.Clone()
	if len(steps) == 0 {
		steps = models.FallbackPourSequence()
	}

	metrics.PresetOperationsTotal.WithLabelValues("apply").Inc()
	return &models.CreateBrewRequest{
		Date:       s.today(),
		BeanID:     beanID,
		RecipeName: preset.RecipeName,
		Grinder:    preset.Grinder,
		Clicks:     preset.Clicks,
		Dripper:    preset.Dripper,
		WaterTemp:  preset.Temp,
		PourSteps:  steps,
	}, nil
}
