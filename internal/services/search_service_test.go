package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellcareplus/backend/internal/cache"
	"wellcareplus/backend/internal/logging"
	"wellcareplus/backend/internal/repository"
	"wellcareplus/backend/pkg/models"
)

func newTestService(t *testing.T) (*SearchService, *repository.MemoryProviderStore, *cache.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryProviderStore()
	cacheStore := cache.NewMemoryStore()
	service := NewSearchService(store, cacheStore, logging.NewLogger())
	return service, store, cacheStore
}

func addProvider(t *testing.T, store *repository.MemoryProviderStore, p *models.Provider) {
	t.Helper()
	require.NoError(t, store.CreateProvider(context.Background(), p))
}

func TestSearchProvidersCaching(t *testing.T) {
	ctx := context.Background()
	service, store, cacheStore := newTestService(t)

	addProvider(t, store, &models.Provider{
		ID: "a1", FirstName: "Priya", LastName: "Sharma",
		Specialty: models.SpecialtyCardiology, City: "Delhi",
		IsAvailable: true, IsVerified: true, AverageRating: 4.8,
	})

	filters := SearchFilters{Specialty: "cardiology"}

	first, err := service.SearchProviders(ctx, filters)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, cacheStore.Len())

	// A provider added after the first search stays invisible while the
	// cached entry is warm.
	addProvider(t, store, &models.Provider{
		ID: "b2", FirstName: "Arjun", LastName: "Mehta",
		Specialty: models.SpecialtyCardiology, City: "Mumbai",
		IsAvailable: true, AverageRating: 4.2,
	})

	second, err := service.SearchProviders(ctx, filters)
	require.NoError(t, err)
	assert.Len(t, second, 1)

	// Invalidation exposes the new provider.
	service.InvalidateResultCaches()
	third, err := service.SearchProviders(ctx, filters)
	require.NoError(t, err)
	assert.Len(t, third, 2)
}

func TestSearchProvidersKeyInvariance(t *testing.T) {
	ctx := context.Background()
	service, store, cacheStore := newTestService(t)

	addProvider(t, store, &models.Provider{
		ID: "a1", Specialty: models.SpecialtyCardiology, City: "Delhi", IsAvailable: true,
	})

	// Filters that parse identically must share one cache entry: a
	// malformed numeric keys the same as an absent one.
	_, err := service.SearchProviders(ctx, SearchFilters{City: "Delhi", MinExperience: "abc"})
	require.NoError(t, err)
	require.Equal(t, 1, cacheStore.Len())

	_, err = service.SearchProviders(ctx, SearchFilters{City: "Delhi"})
	require.NoError(t, err)
	assert.Equal(t, 1, cacheStore.Len())

	_, err = service.SearchProviders(ctx, SearchFilters{City: "Mumbai"})
	require.NoError(t, err)
	assert.Equal(t, 2, cacheStore.Len())
}

func TestSearchProvidersMalformedFiltersDegrade(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService(t)

	addProvider(t, store, &models.Provider{
		ID: "a1", Specialty: models.SpecialtyCardiology,
		ExperienceYears: 3, IsAvailable: true,
	})

	withMalformed, err := service.SearchProviders(ctx, SearchFilters{MinExperience: "abc"})
	require.NoError(t, err)
	without, err := service.SearchProviders(ctx, SearchFilters{})
	require.NoError(t, err)

	assert.Equal(t, without, withMalformed)
}

func TestFeaturedProviders(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService(t)

	addProvider(t, store, &models.Provider{
		ID: "top", IsAvailable: true, AverageRating: 4.9, TotalReviews: 30,
	})
	addProvider(t, store, &models.Provider{
		ID: "low-rating", IsAvailable: true, AverageRating: 3.2, TotalReviews: 50,
	})
	addProvider(t, store, &models.Provider{
		ID: "few-reviews", IsAvailable: true, AverageRating: 5.0, TotalReviews: 2,
	})

	featured, err := service.FeaturedProviders(ctx, 0)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "top", featured[0].ID)
}

func TestProviderCountByCity(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService(t)

	addProvider(t, store, &models.Provider{ID: "a", City: "Delhi", IsAvailable: true})
	addProvider(t, store, &models.Provider{ID: "b", City: "Delhi", IsAvailable: true})
	addProvider(t, store, &models.Provider{ID: "c", City: "Mumbai", IsAvailable: true})

	counts, err := service.ProviderCountByCity(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CityCount{
		{City: "Delhi", Count: 2},
		{City: "Mumbai", Count: 1},
	}, counts)

	// Served from cache on the second call.
	addProvider(t, store, &models.Provider{ID: "d", City: "Pune", IsAvailable: true})
	cached, err := service.ProviderCountByCity(ctx)
	require.NoError(t, err)
	assert.Equal(t, counts, cached)
}

func TestWarmUp(t *testing.T) {
	ctx := context.Background()
	service, store, cacheStore := newTestService(t)

	addProvider(t, store, &models.Provider{
		ID: "a1", Specialty: models.SpecialtyCardiology, City: "Delhi",
		IsAvailable: true, AverageRating: 4.8, TotalReviews: 30,
	})
	addProvider(t, store, &models.Provider{
		ID: "c3", Specialty: models.SpecialtyPediatrics, City: "Bengaluru",
		IsAvailable: true, AverageRating: 4.6, TotalReviews: 25,
	})

	require.NoError(t, service.WarmUp(ctx))

	// Featured list, four canned specialty searches, the city report, and
	// up to three canned city searches.
	assert.GreaterOrEqual(t, cacheStore.Len(), 6)

	// Warm entries serve unchanged results even after the catalog moves.
	addProvider(t, store, &models.Provider{
		ID: "new", Specialty: models.SpecialtyCardiology, City: "Delhi",
		IsAvailable: true, AverageRating: 5.0, TotalReviews: 99,
	})
	featured, err := service.FeaturedProviders(ctx, 0)
	require.NoError(t, err)
	assert.NotContains(t, resultIDs(featured), "new")
}

func TestConcurrentColdSearches(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService(t)

	addProvider(t, store, &models.Provider{
		ID: "a1", Specialty: models.SpecialtyCardiology, IsAvailable: true,
	})

	filters := SearchFilters{Specialty: "cardiology"}
	done := make(chan []*models.Provider, 2)
	for i := 0; i < 2; i++ {
		go func() {
			results, err := service.SearchProviders(ctx, filters)
			assert.NoError(t, err)
			done <- results
		}()
	}
	first := <-done
	second := <-done
	assert.Equal(t, resultIDs(first), resultIDs(second))

	// Whichever writer won, the stored value reads back consistently.
	final, err := service.SearchProviders(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, resultIDs(first), resultIDs(final))
}

func resultIDs(providers []*models.Provider) []string {
	ids := make([]string, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
	}
	return ids
}
