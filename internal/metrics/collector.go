package metrics

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Snapshot is a point-in-time view of the journal used to refresh gauges.
type Snapshot struct {
	ActiveBeans   int
	FinishedBeans int
	Brews         int
	Presets       int
	CafeLogs      int
	BrewSpend     float64
	CafeSpend     float64
}

// StatsSource provides the current journal totals for gauge metrics.
// A nil Snapshot function disables collection.
type StatsSource struct {
	Snapshot func(ctx context.Context) (Snapshot, error)
}

// StartCollector launches a goroutine that periodically updates gauge metrics.
// It runs every interval until the context is cancelled.
func StartCollector(ctx context.Context, src StatsSource, interval time.Duration) {
	// Do an initial collection immediately
	collect(ctx, src)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				collect(ctx, src)
			}
		}
	}()

	log.Info().Dur("interval", interval).Msg("Metrics collector started")
}

func collect(ctx context.Context, src StatsSource) {
	if src.Snapshot == nil {
		return
	}
	snap, err := src.Snapshot(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to collect journal metrics")
		return
	}

	BeansByStatus.WithLabelValues("Active").Set(float64(snap.ActiveBeans))
	BeansByStatus.WithLabelValues("Finished").Set(float64(snap.FinishedBeans))
	BrewsTotal.Set(float64(snap.Brews))
	PresetsTotal.Set(float64(snap.Presets))
	CafeLogsTotal.Set(float64(snap.CafeLogs))
	BrewSpend.Set(snap.BrewSpend)
	CafeSpend.Set(snap.CafeSpend)
}
