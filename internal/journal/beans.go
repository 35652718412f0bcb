package journal

import (
	"context"
	"strings"

	"tangled.org/arabica.social/brewjournal/internal/events"
	"tangled.org/arabica.social/brewjournal/internal/metrics"
	"tangled.org/arabica.social/brewjournal/internal/models"
)

// CreateBean validates and stores a new bean. An empty status means Active.
func (s *Service) CreateBean(ctx context.Context, req *models.CreateBeanRequest) (*models.Bean, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	bean, err := s.store.CreateBean(ctx, req)
	if err != nil {
		return nil, err
	}
	metrics.BeansAddedTotal.Inc()
	s.publish(events.BeanCreated, bean.ID)
	return bean, nil
}

func (s *Service) GetBean(ctx context.Context, id string) (*models.Bean, error) {
	return s.store.GetBean(ctx, id)
}

// ListBeans returns the inventory, oldest first, narrowed by filter.
func (s *Service) ListBeans(ctx context.Context, filter models.BeanFilter) ([]*models.Bean, error) {
	beans, err := s.store.ListBeans(ctx)
	if err != nil {
		return nil, err
	}
	return models.FilterBeans(beans, filter), nil
}

// UpdateBean replaces every editable field of a bean.
func (s *Service) UpdateBean(ctx context.Context, id string, req *models.UpdateBeanRequest) (*models.Bean, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	bean, err := s.store.UpdateBean(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.publish(events.BeanUpdated, id)
	return bean, nil
}

// SetBeanStatus archives (Finished) or reactivates (Active) a bean, keeping
// every other field.
func (s *Service) SetBeanStatus(ctx context.Context, id, status string) (*models.Bean, error) {
	if strings.TrimSpace(status) == "" {
		return nil, models.ErrInvalidStatus
	}
	normalized, err := models.NormalizeStatus(status)
	if err != nil {
		return nil, err
	}

	current, err := s.store.GetBean(ctx, id)
	if err != nil {
		return nil, err
	}
	req := models.UpdateRequestFor(current)
	req.Status = normalized

	bean, err := s.store.UpdateBean(ctx, id, req)
	if err != nil {
		return nil, err
	}
	metrics.BeanStatusChangesTotal.WithLabelValues(normalized).Inc()
	s.publish(events.BeanStatusChanged, id)
	return bean, nil
}

// DeleteBean removes a bean. Brews referencing it are kept and simply lose
// their joined bean.
func (s *Service) DeleteBean(ctx context.Context, id string) error {
	if err := s.store.DeleteBean(ctx, id); err != nil {
		return err
	}
	metrics.DeletionsTotal.WithLabelValues("beans").Inc()
	s.publish(events.BeanDeleted, id)
	return nil
}
