package services

import (
	"context"
	"fmt"

	"wellcareplus/backend/internal/logging"
	"wellcareplus/backend/internal/repository"
)

// statsBatchSize bounds the memory footprint of one refresh pass.
const statsBatchSize = 100

// StatsService recomputes denormalized provider statistics from reviews and
// appointments. It runs out-of-band and never holds locks that the request
// path depends on: each batch's bulk write is its own atomic unit, so an
// interrupted run leaves earlier batches durable and later providers with
// stale-but-valid statistics until the next run.
type StatsService struct {
	store  repository.ProviderStore
	search *SearchService
	logger *logging.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(store repository.ProviderStore, search *SearchService, logger *logging.Logger) *StatsService {
	return &StatsService{
		store:  store,
		search: search,
		logger: logger,
	}
}

// RefreshStatistics recomputes average rating, review count, and distinct
// patient count for every provider, batch by batch, then invalidates the
// dependent result caches.
func (s *StatsService) RefreshStatistics(ctx context.Context) error {
	ids, err := s.store.ListProviderIDs(ctx)
	if err != nil {
		return fmt.Errorf("list providers: %w", err)
	}

	s.logger.Info("refreshing statistics for %d providers", len(ids))

	for start := 0; start < len(ids); start += statsBatchSize {
		end := start + statsBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		stats, err := s.store.ComputeProviderStats(ctx, batch)
		if err != nil {
			return fmt.Errorf("compute stats for batch at %d: %w", start, err)
		}
		if err := s.store.UpdateProviderStats(ctx, stats); err != nil {
			return fmt.Errorf("update stats for batch at %d: %w", start, err)
		}

		s.logger.Info("updated statistics for %d/%d providers", end, len(ids))
	}

	// Cached search results now reference stale statistics. Bounded TTLs
	// would repair this on their own; dropping the entries shortens the
	// stale window to zero.
	s.search.InvalidateResultCaches()

	s.logger.Info("statistics refresh completed")
	return nil
}
