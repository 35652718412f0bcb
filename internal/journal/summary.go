package journal

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"tangled.org/arabica.social/brewjournal/internal/metrics"
	"tangled.org/arabica.social/brewjournal/internal/models"
)

// Snapshot is every collection at once, as the dashboard loads it.
type Snapshot struct {
	Beans    []*models.Bean    `json:"beans"`
	Brews    []*models.Brew    `json:"brews"`
	Presets  []*models.Preset  `json:"presets"`
	CafeLogs []*models.CafeLog `json:"cafeLogs"`
}

// Snapshot fetches all four collections concurrently. Brews come newest
// first with beans joined.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Beans, err = s.store.ListBeans(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Brews, err = s.store.ListBrews(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Presets, err = s.store.ListPresets(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.CafeLogs, err = s.store.ListCafeLogs(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	models.LinkBrewsToBeans(snap.Brews, snap.Beans)
	return snap, nil
}

// Stats summarizes the journal
type Stats struct {
	ActiveBeans     int     `json:"activeBeans"`
	FinishedBeans   int     `json:"finishedBeans"`
	Brews           int     `json:"brews"`
	Presets         int     `json:"presets"`
	TotalBrewCost   float64 `json:"totalBrewCost"`
	AverageBrewCost float64 `json:"averageBrewCost"`
	CafeVisits      int     `json:"cafeVisits"`
	CafeSpend       float64 `json:"cafeSpend"`
	DistinctCafes   int     `json:"distinctCafes"`
}

// Stats computes inventory, brewing and cafe totals.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(snap), nil
}

func summarize(snap *Snapshot) *Stats {
	stats := &Stats{
		Brews:      len(snap.Brews),
		Presets:    len(snap.Presets),
		CafeVisits: len(snap.CafeLogs),
	}

	for _, b := range snap.Beans {
		if b.IsActive() {
			stats.ActiveBeans++
		} else {
			stats.FinishedBeans++
		}
	}

	brewTotal := decimal.Zero
	for _, b := range snap.Brews {
		brewTotal = brewTotal.Add(decimal.NewFromFloat(b.CalculatedCost))
	}
	stats.TotalBrewCost = brewTotal.Round(2).InexactFloat64()
	if len(snap.Brews) > 0 {
		stats.AverageBrewCost = brewTotal.Div(decimal.NewFromInt(int64(len(snap.Brews)))).Round(2).InexactFloat64()
	}

	cafeTotal := decimal.Zero
	cafes := make(map[string]struct{})
	for _, l := range snap.CafeLogs {
		cafeTotal = cafeTotal.Add(decimal.NewFromFloat(l.Price))
		cafes[strings.ToLower(strings.TrimSpace(l.CafeName))] = struct{}{}
	}
	stats.CafeSpend = cafeTotal.Round(2).InexactFloat64()
	stats.DistinctCafes = len(cafes)

	return stats
}

// MetricsSnapshot adapts Stats for the metrics collector.
func (s *Service) MetricsSnapshot(ctx context.Context) (metrics.Snapshot, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return metrics.Snapshot{}, err
	}
	return metrics.Snapshot{
		ActiveBeans:   stats.ActiveBeans,
		FinishedBeans: stats.FinishedBeans,
		Brews:         stats.Brews,
		Presets:       stats.Presets,
		CafeLogs:      stats.CafeVisits,
		BrewSpend:     stats.TotalBrewCost,
		CafeSpend:     stats.CafeSpend,
	}, nil
}

// CostEstimate is the cost of brewing a dose of a bean
type CostEstimate struct {
	models.CostBreakdown
	Bean *models.Bean `json:"bean"`
}

// Cost prices dose grams of a bean.
func (s *Service) Cost(ctx context.Context, beanID string, dose float64) (*CostEstimate, error) {
	if !models.Finite(dose) || dose <= 0 {
		return nil, ErrInvalidDose
	}
	bean, err := s.store.GetBean(ctx, beanID)
	if err != nil {
		return nil, err
	}
	return &CostEstimate{
		CostBreakdown: models.CostFor(bean, dose),
		Bean:          bean,
	}, nil
}
