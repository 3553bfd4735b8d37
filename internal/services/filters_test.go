package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellcareplus/backend/pkg/models"
)

func TestParseCriteria(t *testing.T) {
	t.Run("full filter set", func(t *testing.T) {
		criteria := ParseCriteria(SearchFilters{
			Specialty:       "cardiology",
			City:            "Delhi",
			State:           "Delhi",
			Query:           "heart",
			MinExperience:   "5",
			MaxFee:          "1500.50",
			RatingMin:       "4.0",
			Language:        "Hindi",
			VerifiedOnly:    "true",
			AvailabilityDay: "2",
			SortBy:          "fee_low",
		})

		assert.Equal(t, models.SpecialtyCardiology, criteria.Specialty)
		assert.Equal(t, "Delhi", criteria.City)
		assert.Equal(t, "heart", criteria.Query)
		require.NotNil(t, criteria.MinExperience)
		assert.Equal(t, 5, *criteria.MinExperience)
		require.NotNil(t, criteria.MaxFee)
		assert.Equal(t, 1500.50, *criteria.MaxFee)
		require.NotNil(t, criteria.MinRating)
		assert.Equal(t, 4.0, *criteria.MinRating)
		assert.Equal(t, "Hindi", criteria.Language)
		assert.True(t, criteria.VerifiedOnly)
		require.NotNil(t, criteria.AvailabilityDay)
		assert.Equal(t, 2, *criteria.AvailabilityDay)
		assert.Equal(t, models.SortByFeeLow, criteria.SortBy)
	})

	t.Run("malformed numerics are dropped, not errors", func(t *testing.T) {
		criteria := ParseCriteria(SearchFilters{
			MinExperience:   "abc",
			MaxFee:          "lots",
			RatingMin:       "good",
			AvailabilityDay: "monday",
		})
		assert.Nil(t, criteria.MinExperience)
		assert.Nil(t, criteria.MaxFee)
		assert.Nil(t, criteria.MinRating)
		assert.Nil(t, criteria.AvailabilityDay)
	})

	t.Run("malformed filter equals absent filter", func(t *testing.T) {
		malformed := ParseCriteria(SearchFilters{City: "Delhi", MinExperience: "abc"})
		absent := ParseCriteria(SearchFilters{City: "Delhi"})

		assert.Equal(t, absent, malformed)
		assert.Equal(t, absent.CanonicalString(), malformed.CanonicalString())
	})

	t.Run("unknown specialty is dropped", func(t *testing.T) {
		criteria := ParseCriteria(SearchFilters{Specialty: "astrology"})
		assert.Empty(t, criteria.Specialty)
	})

	t.Run("unknown sort falls back to relevance", func(t *testing.T) {
		criteria := ParseCriteria(SearchFilters{SortBy: "best"})
		assert.Equal(t, models.SortByRelevance, criteria.SortBy)
	})

	t.Run("verified_only truthiness", func(t *testing.T) {
		for _, raw := range []string{"true", "1", "yes", "on", "anything"} {
			assert.True(t, ParseCriteria(SearchFilters{VerifiedOnly: raw}).VerifiedOnly, raw)
		}
		for _, raw := range []string{"", "0", "false", "no", "off"} {
			assert.False(t, ParseCriteria(SearchFilters{VerifiedOnly: raw}).VerifiedOnly, raw)
		}
	})

	t.Run("whitespace is trimmed", func(t *testing.T) {
		criteria := ParseCriteria(SearchFilters{City: "  Delhi ", MinExperience: " 5 "})
		assert.Equal(t, "Delhi", criteria.City)
		require.NotNil(t, criteria.MinExperience)
		assert.Equal(t, 5, *criteria.MinExperience)
	})
}
