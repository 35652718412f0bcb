package journal

import (
	"context"

	"tangled.org/arabica.social/brewjournal/internal/events"
	"tangled.org/arabica.social/brewjournal/internal/metrics"
	"tangled.org/arabica.social/brewjournal/internal/models"
)

// CreateCafeLog records a cafe visit.
func (s *Service) CreateCafeLog(ctx context.Context, req *models.CreateCafeLogRequest) (*models.CafeLog, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	entry, err := s.store.CreateCafeLog(ctx, req)
	if err != nil {
		return nil, err
	}
	metrics.CafeVisitsTotal.Inc()
	s.publish(events.CafeLogged, entry.ID)
	return entry, nil
}

func (s *Service) GetCafeLog(ctx context.Context, id string) (*models.CafeLog, error) {
	return s.store.GetCafeLog(ctx, id)
}

// ListCafeLogs returns visits newest first.
func (s *Service) ListCafeLogs(ctx context.Context) ([]*models.CafeLog, error) {
	return s.store.ListCafeLogs(ctx)
}

// GroupedCafeLogs returns visits grouped by cafe, cafes sorted by name.
func (s *Service) GroupedCafeLogs(ctx context.Context) ([]models.CafeGroup, error) {
	logs, err := s.store.ListCafeLogs(ctx)
	if err != nil {
		return nil, err
	}
	return models.GroupCafeLogs(logs), nil
}

func (s *Service) UpdateCafeLog(ctx context.Context, id string, req *models.CreateCafeLogRequest) (*models.CafeLog, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	entry, err := s.store.UpdateCafeLog(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.publish(events.CafeUpdated, id)
	return entry, nil
}

func (s *Service) DeleteCafeLog(ctx context.Context, id string) error {
	if err := s.store.DeleteCafeLog(ctx, id); err != nil {
		return err
	}
	metrics.DeletionsTotal.WithLabelValues("cafe_logs").Inc()
	s.publish(events.CafeDeleted, id)
	return nil
}
