package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wellcareplus/backend/pkg/models"
)

func TestSearchCriteriaCanonicalString(t *testing.T) {
	t.Run("empty criteria", func(t *testing.T) {
		assert.Equal(t, "", SearchCriteria{}.CanonicalString())
	})

	t.Run("pairs come out sorted by name", func(t *testing.T) {
		exp := 5
		c := SearchCriteria{
			Specialty:     models.SpecialtyCardiology,
			City:          "Delhi",
			MinExperience: &exp,
			SortBy:        models.SortByRating,
		}
		assert.Equal(t,
			"city=delhi&min_experience=5&sort=rating&specialty=cardiology",
			c.CanonicalString())
	})

	t.Run("stable across calls", func(t *testing.T) {
		fee := 750.5
		c := SearchCriteria{MaxFee: &fee, VerifiedOnly: true, Query: "Heart Care"}
		first := c.CanonicalString()
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, c.CanonicalString())
		}
	})

	t.Run("case differences in text filters collapse", func(t *testing.T) {
		a := SearchCriteria{City: "Delhi"}
		b := SearchCriteria{City: "DELHI"}
		assert.Equal(t, a.CanonicalString(), b.CanonicalString())
	})

	t.Run("distinct criteria produce distinct strings", func(t *testing.T) {
		a := SearchCriteria{City: "Delhi"}
		b := SearchCriteria{State: "Delhi"}
		assert.NotEqual(t, a.CanonicalString(), b.CanonicalString())
	})
}
