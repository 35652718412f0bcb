package journal

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"tangled.org/arabica.social/brewjournal/internal/database"
	"tangled.org/arabica.social/brewjournal/internal/events"
	"tangled.org/arabica.social/brewjournal/internal/metrics"
	"tangled.org/arabica.social/brewjournal/internal/models"
)

// prepareBrew validates req and fills in derived fields from bean.
// The cost is recomputed whenever a dose is given; with no dose the
// client-provided cost is kept.
func (s *Service) prepareBrew(ctx context.Context, req *models.CreateBrewRequest) (*models.Bean, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bean, err := s.store.GetBean(ctx, req.BeanID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrBeanNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Dose > 0 {
		req.CalculatedCost = models.BrewCost(bean.Price, bean.Weight, req.Dose)
	}
	if len(req.PourSteps) == 0 {
		req.PourSteps = models.DefaultPourSequence()
	}
	return bean, nil
}

// LogBrew records a brew against an existing bean.
func (s *Service) LogBrew(ctx context.Context, req *models.CreateBrewRequest) (*models.Brew, error) {
	bean, err := s.prepareBrew(ctx, req)
	if err != nil {
		return nil, err
	}

	brew, err := s.store.CreateBrew(ctx, req)
	if err != nil {
		return nil, err
	}
	brew.Bean = bean
	metrics.BrewsLoggedTotal.Inc()
	s.publish(events.BrewLogged, brew.ID)
	return brew, nil
}

// UpdateBrew replaces a brew, recomputing its cost the same way LogBrew does.
func (s *Service) UpdateBrew(ctx context.Context, id string, req *models.CreateBrewRequest) (*models.Brew, error) {
	bean, err := s.prepareBrew(ctx, req)
	if err != nil {
		return nil, err
	}

	brew, err := s.store.UpdateBrew(ctx, id, req)
	if err != nil {
		return nil, err
	}
	brew.Bean = bean
	s.publish(events.BrewUpdated, id)
	return brew, nil
}

// GetBrew returns a brew with its bean joined when the bean still exists.
func (s *Service) GetBrew(ctx context.Context, id string) (*models.Brew, error) {
	brew, err := s.store.GetBrew(ctx, id)
	if err != nil {
		return nil, err
	}

	bean, err := s.store.GetBean(ctx, brew.BeanID)
	switch {
	case err == nil:
		brew.Bean = bean
	case !errors.Is(err, database.ErrNotFound):
		return nil, err
	}
	return brew, nil
}

// ListBrews returns brew history newest first with beans joined, narrowed to
// brews whose recipe name or bean roaster contains query.
func (s *Service) ListBrews(ctx context.Context, query string) ([]*models.Brew, error) {
	var brews []*models.Brew
	var beans []*models.Bean

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		brews, err = s.store.ListBrews(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		beans, err = s.store.ListBeans(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	models.LinkBrewsToBeans(brews, beans)
	return models.FilterBrews(brews, query), nil
}

func (s *Service) DeleteBrew(ctx context.Context, id string) error {
	if err := s.store.DeleteBrew(ctx, id); err != nil {
		return err
	}
	metrics.DeletionsTotal.WithLabelValues("brews").Inc()
	s.publish(events.BrewDeleted, id)
	return nil
}
