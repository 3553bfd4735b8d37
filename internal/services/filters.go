package services

import (
	"strconv"
	"strings"

	"wellcareplus/backend/internal/repository"
	"wellcareplus/backend/pkg/models"
)

// SearchFilters carries the raw, untyped filter inputs of one search
// request, exactly as supplied by the caller. All fields are optional.
type SearchFilters struct {
	Specialty       string `json:"specialty" query:"specialty"`
	City            string `json:"city" query:"city"`
	State           string `json:"state" query:"state"`
	Query           string `json:"q" query:"q"`
	MinExperience   string `json:"min_experience" query:"min_experience"`
	MaxFee          string `json:"max_fee" query:"max_fee"`
	RatingMin       string `json:"rating_min" query:"rating_min"`
	Language        string `json:"language" query:"language"`
	VerifiedOnly    string `json:"verified_only" query:"verified_only"`
	AvailabilityDay string `json:"availability_day" query:"availability_day"`
	SortBy          string `json:"sort_by" query:"sort_by"`
}

// ParseCriteria converts raw filters into typed search criteria. Values
// that fail to parse are dropped rather than surfaced as errors, so a
// request with a partially invalid filter set still returns the results of
// its valid subset. Because dropped filters leave no trace in the criteria,
// they also leave no trace in the derived cache key.
func ParseCriteria(filters SearchFilters) repository.SearchCriteria {
	criteria := repository.SearchCriteria{
		City:     strings.TrimSpace(filters.City),
		State:    strings.TrimSpace(filters.State),
		Query:    strings.TrimSpace(filters.Query),
		Language: strings.TrimSpace(filters.Language),
		SortBy:   parseSortOrder(filters.SortBy),
	}

	if specialty, ok := models.ParseSpecialty(strings.TrimSpace(filters.Specialty)); ok {
		criteria.Specialty = specialty
	}
	if v, err := strconv.Atoi(strings.TrimSpace(filters.MinExperience)); err == nil {
		criteria.MinExperience = &v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(filters.MaxFee), 64); err == nil {
		criteria.MaxFee = &v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(filters.RatingMin), 64); err == nil {
		criteria.MinRating = &v
	}
	if isTruthy(filters.VerifiedOnly) {
		criteria.VerifiedOnly = true
	}
	if v, err := strconv.Atoi(strings.TrimSpace(filters.AvailabilityDay)); err == nil {
		criteria.AvailabilityDay = &v
	}

	return criteria
}

func parseSortOrder(raw string) models.SortOrder {
	switch models.SortOrder(strings.TrimSpace(raw)) {
	case models.SortByRating:
		return models.SortByRating
	case models.SortByExperience:
		return models.SortByExperience
	case models.SortByFeeLow:
		return models.SortByFeeLow
	case models.SortByFeeHigh:
		return models.SortByFeeHigh
	case models.SortByReviews:
		return models.SortByReviews
	case models.SortByNewest:
		return models.SortByNewest
	case models.SortByName:
		return models.SortByName
	default:
		return models.SortByRelevance
	}
}

func isTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
