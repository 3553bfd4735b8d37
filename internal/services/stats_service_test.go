package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellcareplus/backend/internal/cache"
	"wellcareplus/backend/internal/logging"
	"wellcareplus/backend/internal/repository"
	"wellcareplus/backend/pkg/models"
)

func TestRefreshStatistics(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryProviderStore()
	cacheStore := cache.NewMemoryStore()
	logger := logging.NewLogger()
	search := NewSearchService(store, cacheStore, logger)
	stats := NewStatsService(store, search, logger)

	require.NoError(t, store.CreateProvider(ctx, &models.Provider{
		ID: "a1", FirstName: "Priya", LastName: "Sharma", IsAvailable: true,
		// Stale denormalized values, to be replaced by the refresh.
		AverageRating: 1.0, TotalReviews: 99, TotalPatients: 99,
	}))
	require.NoError(t, store.CreateProvider(ctx, &models.Provider{
		ID: "b2", FirstName: "Arjun", LastName: "Mehta", IsAvailable: true,
	}))

	require.NoError(t, store.CreateReview(ctx, &models.Review{
		ID: "r1", ProviderID: "a1", PatientID: "p1", Rating: 5, IsApproved: true,
	}))
	require.NoError(t, store.CreateReview(ctx, &models.Review{
		ID: "r2", ProviderID: "a1", PatientID: "p2", Rating: 4, IsApproved: true,
	}))
	require.NoError(t, store.CreateReview(ctx, &models.Review{
		ID: "r3", ProviderID: "a1", PatientID: "p3", Rating: 1, IsApproved: false,
	}))
	require.NoError(t, store.CreateAppointment(ctx, &models.Appointment{
		ID: "ap1", ProviderID: "a1", PatientID: "p1", Status: models.AppointmentCompleted,
	}))
	require.NoError(t, store.CreateAppointment(ctx, &models.Appointment{
		ID: "ap2", ProviderID: "a1", PatientID: "p2", Status: models.AppointmentScheduled,
	}))

	// Populate a cached search so the refresh has something to invalidate.
	_, err := search.SearchProviders(ctx, SearchFilters{})
	require.NoError(t, err)
	require.NotZero(t, cacheStore.Len())

	require.NoError(t, stats.RefreshStatistics(ctx))

	a1, err := store.GetProvider(ctx, "a1")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, a1.AverageRating, 0.001)
	assert.Equal(t, 2, a1.TotalReviews)
	assert.Equal(t, 2, a1.TotalPatients)

	b2, err := store.GetProvider(ctx, "b2")
	require.NoError(t, err)
	assert.Zero(t, b2.AverageRating)
	assert.Zero(t, b2.TotalReviews)
	assert.Zero(t, b2.TotalPatients)

	// Dependent cache entries were dropped.
	assert.Zero(t, cacheStore.Len())

	// The next search sees the refreshed statistics.
	results, err := search.SearchProviders(ctx, SearchFilters{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a1", results[0].ID)
}

func TestRefreshStatisticsEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryProviderStore()
	logger := logging.NewLogger()
	search := NewSearchService(store, cache.NewMemoryStore(), logger)
	stats := NewStatsService(store, search, logger)

	assert.NoError(t, stats.RefreshStatistics(ctx))
}

func TestRefreshStatisticsBatches(t *testing.T) {
	// More providers than one batch holds; every one must still be updated.
	ctx := context.Background()
	store := repository.NewMemoryProviderStore()
	logger := logging.NewLogger()
	search := NewSearchService(store, cache.NewMemoryStore(), logger)
	stats := NewStatsService(store, search, logger)

	total := statsBatchSize + 25
	for i := 0; i < total; i++ {
		id := "provider-" + strconv.Itoa(i)
		require.NoError(t, store.CreateProvider(ctx, &models.Provider{ID: id, IsAvailable: true}))
		require.NoError(t, store.CreateReview(ctx, &models.Review{
			ID: "r-" + id, ProviderID: id, PatientID: "p-" + id, Rating: 4, IsApproved: true,
		}))
	}

	require.NoError(t, stats.RefreshStatistics(ctx))

	ids, err := store.ListProviderIDs(ctx)
	require.NoError(t, err)
	require.Len(t, ids, total)
	for _, id := range ids {
		p, err := store.GetProvider(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, p.TotalReviews, id)
		assert.InDelta(t, 4.0, p.AverageRating, 0.001, id)
	}
}
