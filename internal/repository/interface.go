package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"wellcareplus/backend/pkg/models"
)

var (
	// ErrProviderNotFound is returned when a provider lookup finds no row.
	ErrProviderNotFound = errors.New("provider not found")
)

// SearchCriteria is the parsed, domain-level form of one search request.
// Every field is optional; nil or zero-valued fields apply no constraint.
// Malformed raw inputs never reach this struct: the service layer drops
// them during parsing, so two requests that differ only in unparseable
// filter values produce identical criteria.
type SearchCriteria struct {
	Specialty models.Specialty
	City      string
	State     string
	// Query is matched case-insensitively against name, qualification, bio,
	// clinic name, hospital affiliations and specialization names.
	Query           string
	Language        string
	MinExperience   *int
	MaxFee          *float64
	MinRating       *float64
	MinReviews      *int
	VerifiedOnly    bool
	AvailabilityDay *int // 0=Monday .. 6=Sunday

	SortBy models.SortOrder
	Limit  int // 0 means no limit
}

// CanonicalString serializes the applied criteria as sorted key=value pairs.
// The output is stable across runs and processes and is invariant to the
// order in which filters were supplied, which makes it safe to feed into
// cache key derivation.
func (c SearchCriteria) CanonicalString() string {
	pairs := make([]string, 0, 12)
	add := func(key, value string) {
		pairs = append(pairs, key+"="+value)
	}

	if c.Specialty != "" {
		add("specialty", string(c.Specialty))
	}
	if c.City != "" {
		add("city", strings.ToLower(c.City))
	}
	if c.State != "" {
		add("state", strings.ToLower(c.State))
	}
	if c.Query != "" {
		add("query", strings.ToLower(c.Query))
	}
	if c.Language != "" {
		add("language", strings.ToLower(c.Language))
	}
	if c.MinExperience != nil {
		add("min_experience", strconv.Itoa(*c.MinExperience))
	}
	if c.MaxFee != nil {
		add("max_fee", strconv.FormatFloat(*c.MaxFee, 'f', -1, 64))
	}
	if c.MinRating != nil {
		add("min_rating", strconv.FormatFloat(*c.MinRating, 'f', -1, 64))
	}
	if c.MinReviews != nil {
		add("min_reviews", strconv.Itoa(*c.MinReviews))
	}
	if c.VerifiedOnly {
		add("verified_only", "1")
	}
	if c.AvailabilityDay != nil {
		add("availability_day", strconv.Itoa(*c.AvailabilityDay))
	}
	if c.SortBy != "" {
		add("sort", string(c.SortBy))
	}
	if c.Limit > 0 {
		add("limit", strconv.Itoa(c.Limit))
	}

	sort.Strings(pairs)
	return strings.Join(pairs, "&")
}

// String implements fmt.Stringer for log output.
func (c SearchCriteria) String() string {
	return fmt.Sprintf("criteria{%s}", c.CanonicalString())
}

// ProviderStore is the catalog interface consumed by the search and
// statistics services. Search operations are read-only; the write side
// exists for seeding and for the statistics refresh job.
type ProviderStore interface {
	// SearchProviders returns available providers matching the criteria in
	// the requested order. Ordering is deterministic: equal sort keys are
	// tie-broken by provider ID.
	SearchProviders(ctx context.Context, criteria SearchCriteria) ([]*models.Provider, error)
	// GetProvider retrieves a single provider by ID.
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	// CountProvidersByCity returns provider counts per city, most first.
	CountProvidersByCity(ctx context.Context, limit int) ([]models.CityCount, error)

	// ListProviderIDs returns the IDs of all providers, available or not,
	// in a stable order for batched statistics processing.
	ListProviderIDs(ctx context.Context) ([]string, error)
	// ComputeProviderStats aggregates approved-review rating/count and the
	// distinct patient count for the given providers.
	ComputeProviderStats(ctx context.Context, providerIDs []string) ([]models.ProviderStats, error)
	// UpdateProviderStats persists recomputed statistics as one bulk write.
	UpdateProviderStats(ctx context.Context, stats []models.ProviderStats) error

	// CreateProvider inserts a provider with its specializations and slots.
	CreateProvider(ctx context.Context, provider *models.Provider) error
	// CreateReview inserts a review.
	CreateReview(ctx context.Context, review *models.Review) error
	// CreateAppointment inserts an appointment.
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
}
