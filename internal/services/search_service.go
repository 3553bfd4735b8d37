package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"wellcareplus/backend/internal/cache"
	"wellcareplus/backend/internal/logging"
	"wellcareplus/backend/internal/repository"
	"wellcareplus/backend/pkg/models"
)

// Fixed per-use-case TTLs. These are policy, not tuning knobs: staleness up
// to the TTL window is the accepted tradeoff after a statistics refresh.
const (
	featuredTTL = time.Hour
	searchTTL   = 15 * time.Minute
	cannedTTL   = 15 * time.Minute
	reportTTL   = time.Hour
)

// Cache key namespaces. Prefix invalidation after a statistics refresh
// relies on these.
const (
	searchKeyPrefix   = "provider_search:"
	featuredKeyPrefix = "featured_providers:"
	cityCountsKey     = "provider_count_by_city"
)

const defaultFeaturedLimit = 6

// popularSpecialties are the canned searches pre-populated during warm-up.
var popularSpecialties = []models.Specialty{
	models.SpecialtyCardiology,
	models.SpecialtyGeneral,
	models.SpecialtyPediatrics,
	models.SpecialtyDermatology,
}

// SearchService is the caller-facing search API: it parses filter sets,
// derives cache keys, and serves results cache-aside over the catalog.
type SearchService struct {
	store  repository.ProviderStore
	cache  cache.Store
	logger *logging.Logger

	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
}

// NewSearchService creates a new SearchService.
func NewSearchService(store repository.ProviderStore, cacheStore cache.Store, logger *logging.Logger) *SearchService {
	meter := otel.Meter("wellcareplus/backend/internal/services")
	hits, err := meter.Int64Counter("search.cache.hits")
	if err != nil {
		logger.Error("create cache hit counter: %v", err)
	}
	misses, err := meter.Int64Counter("search.cache.misses")
	if err != nil {
		logger.Error("create cache miss counter: %v", err)
	}

	return &SearchService{
		store:       store,
		cache:       cacheStore,
		logger:      logger,
		cacheHits:   hits,
		cacheMisses: misses,
	}
}

// SearchProviders returns the ordered providers matching the raw filter
// set. Malformed filter values are dropped, never surfaced as errors; a
// catalog failure propagates to the caller.
func (s *SearchService) SearchProviders(ctx context.Context, filters SearchFilters) ([]*models.Provider, error) {
	criteria := ParseCriteria(filters)
	return s.searchWithTTL(ctx, criteria, searchTTL)
}

func (s *SearchService) searchWithTTL(ctx context.Context, criteria repository.SearchCriteria, ttl time.Duration) ([]*models.Provider, error) {
	key := searchKeyPrefix + cache.Digest(criteria.CanonicalString())

	providers, hit, err := cache.GetOrCompute(s.cache, key, ttl, func() ([]*models.Provider, error) {
		return s.store.SearchProviders(ctx, criteria)
	})
	if err != nil {
		return nil, fmt.Errorf("search providers: %w", err)
	}
	s.recordLookup(ctx, "search", hit)
	return providers, nil
}

// FeaturedProviders returns the top-rated providers: rating at least 4.0
// with at least 5 reviews, ordered by rating then review count.
func (s *SearchService) FeaturedProviders(ctx context.Context, limit int) ([]*models.Provider, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	minRating := 4.0
	minReviews := 5
	criteria := repository.SearchCriteria{
		MinRating:  &minRating,
		MinReviews: &minReviews,
		SortBy:     models.SortByRating,
		Limit:      limit,
	}
	key := featuredKeyPrefix + strconv.Itoa(limit)

	providers, hit, err := cache.GetOrCompute(s.cache, key, featuredTTL, func() ([]*models.Provider, error) {
		return s.store.SearchProviders(ctx, criteria)
	})
	if err != nil {
		return nil, fmt.Errorf("featured providers: %w", err)
	}
	s.recordLookup(ctx, "featured", hit)
	return providers, nil
}

// ProviderCountByCity returns the providers-per-city aggregate report.
func (s *SearchService) ProviderCountByCity(ctx context.Context) ([]models.CityCount, error) {
	counts, hit, err := cache.GetOrCompute(s.cache, cityCountsKey, reportTTL, func() ([]models.CityCount, error) {
		return s.store.CountProvidersByCity(ctx, 20)
	})
	if err != nil {
		return nil, fmt.Errorf("provider count by city: %w", err)
	}
	s.recordLookup(ctx, "city_counts", hit)
	return counts, nil
}

// GetProvider retrieves a single provider. Detail lookups are not cached;
// they hit a primary-key index and staleness would be visible to the owner
// editing their own profile.
func (s *SearchService) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	return s.store.GetProvider(ctx, id)
}

// WarmUp pre-populates the high-traffic cache entries: the featured list,
// canned searches for popular specialties and the busiest cities, and the
// city aggregate report. Intended for out-of-band use (scheduled job or
// operator trigger), never the request path.
func (s *SearchService) WarmUp(ctx context.Context) error {
	s.logger.Info("warming up search caches")

	if _, err := s.FeaturedProviders(ctx, defaultFeaturedLimit); err != nil {
		return fmt.Errorf("warm up featured providers: %w", err)
	}

	for _, specialty := range popularSpecialties {
		criteria := repository.SearchCriteria{
			Specialty: specialty,
			SortBy:    models.SortByRating,
			Limit:     10,
		}
		if _, err := s.searchWithTTL(ctx, criteria, cannedTTL); err != nil {
			return fmt.Errorf("warm up specialty %s: %w", specialty, err)
		}
	}

	counts, err := s.ProviderCountByCity(ctx)
	if err != nil {
		return fmt.Errorf("warm up city counts: %w", err)
	}
	for i, c := range counts {
		if i >= 3 {
			break
		}
		criteria := repository.SearchCriteria{
			City:   c.City,
			SortBy: models.SortByRating,
			Limit:  10,
		}
		if _, err := s.searchWithTTL(ctx, criteria, cannedTTL); err != nil {
			return fmt.Errorf("warm up city %s: %w", c.City, err)
		}
	}

	s.logger.Info("search cache warm-up completed")
	return nil
}

// InvalidateResultCaches drops every cached search result and report.
// Called after writes that make cached entries stale, e.g. the statistics
// refresh.
func (s *SearchService) InvalidateResultCaches() {
	s.cache.DeletePrefix(searchKeyPrefix)
	s.cache.DeletePrefix(featuredKeyPrefix)
	s.cache.Delete(cityCountsKey)
}

func (s *SearchService) recordLookup(ctx context.Context, useCase string, hit bool) {
	attrs := metric.WithAttributes(attribute.String("use_case", useCase))
	if hit {
		if s.cacheHits != nil {
			s.cacheHits.Add(ctx, 1, attrs)
		}
		return
	}
	if s.cacheMisses != nil {
		s.cacheMisses.Add(ctx, 1, attrs)
	}
}
