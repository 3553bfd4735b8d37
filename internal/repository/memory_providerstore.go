package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"wellcareplus/backend/pkg/models"
)

// MemoryProviderStore is an in-memory implementation of the ProviderStore
// interface. It applies the same predicate and ordering semantics as the
// Postgres store and backs service-level tests and local development.
type MemoryProviderStore struct {
	mu           sync.RWMutex
	providers    map[string]*models.Provider
	reviews      []*models.Review
	appointments []*models.Appointment
}

// NewMemoryProviderStore creates an empty MemoryProviderStore.
func NewMemoryProviderStore() *MemoryProviderStore {
	return &MemoryProviderStore{
		providers: make(map[string]*models.Provider),
	}
}

// SearchProviders returns available providers matching the criteria.
func (s *MemoryProviderStore) SearchProviders(_ context.Context, criteria SearchCriteria) ([]*models.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Provider
	for _, p := range s.providers {
		if matches(p, criteria) {
			matched = append(matched, p)
		}
	}

	sortProviders(matched, criteria.SortBy)

	if criteria.Limit > 0 && len(matched) > criteria.Limit {
		matched = matched[:criteria.Limit]
	}
	return matched, nil
}

// matches applies the AND-combined filter semantics to one provider. The
// map iteration above visits each provider exactly once, so a text query
// matching several fields cannot duplicate a result.
func matches(p *models.Provider, c SearchCriteria) bool {
	if !p.IsAvailable {
		return false
	}
	if c.Specialty != "" && p.Specialty != c.Specialty {
		return false
	}
	if c.City != "" && !containsFold(p.City, c.City) {
		return false
	}
	if c.State != "" && !containsFold(p.State, c.State) {
		return false
	}
	if c.Query != "" && !matchesQuery(p, c.Query) {
		return false
	}
	if c.MinExperience != nil && p.ExperienceYears < *c.MinExperience {
		return false
	}
	if c.MaxFee != nil && p.ConsultationFee > *c.MaxFee {
		return false
	}
	if c.MinRating != nil && p.AverageRating < *c.MinRating {
		return false
	}
	if c.MinReviews != nil && p.TotalReviews < *c.MinReviews {
		return false
	}
	if c.Language != "" && !containsFold(p.LanguagesSpoken, c.Language) {
		return false
	}
	if c.VerifiedOnly && !p.IsVerified {
		return false
	}
	if c.AvailabilityDay != nil && !availableOn(p, *c.AvailabilityDay) {
		return false
	}
	return true
}

func matchesQuery(p *models.Provider, query string) bool {
	if containsFold(p.FirstName, query) ||
		containsFold(p.LastName, query) ||
		containsFold(p.Qualification, query) ||
		containsFold(p.Bio, query) ||
		containsFold(p.ClinicName, query) ||
		containsFold(p.HospitalAffiliations, query) {
		return true
	}
	for _, sp := range p.Specializations {
		if containsFold(sp.Name, query) {
			return true
		}
	}
	return false
}

func availableOn(p *models.Provider, day int) bool {
	for _, slot := range p.AvailabilitySlots {
		if slot.IsActive && slot.DayOfWeek == day {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// sortProviders orders results by the named sort, tie-breaking on ID so
// repeated searches return identical ordering.
func sortProviders(providers []*models.Provider, sortBy models.SortOrder) {
	less := func(a, b *models.Provider) bool {
		switch sortBy {
		case models.SortByExperience:
			if a.ExperienceYears != b.ExperienceYears {
				return a.ExperienceYears > b.ExperienceYears
			}
		case models.SortByFeeLow:
			if a.ConsultationFee != b.ConsultationFee {
				return a.ConsultationFee < b.ConsultationFee
			}
		case models.SortByFeeHigh:
			if a.ConsultationFee != b.ConsultationFee {
				return a.ConsultationFee > b.ConsultationFee
			}
		case models.SortByReviews:
			if a.TotalReviews != b.TotalReviews {
				return a.TotalReviews > b.TotalReviews
			}
		case models.SortByNewest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		case models.SortByName:
			if a.FirstName != b.FirstName {
				return a.FirstName < b.FirstName
			}
			if a.LastName != b.LastName {
				return a.LastName < b.LastName
			}
		default: // rating, relevance and unknown sorts
			if a.AverageRating != b.AverageRating {
				return a.AverageRating > b.AverageRating
			}
			if a.TotalReviews != b.TotalReviews {
				return a.TotalReviews > b.TotalReviews
			}
		}
		return a.ID < b.ID
	}
	sort.Slice(providers, func(i, j int) bool { return less(providers[i], providers[j]) })
}

// GetProvider retrieves a provider by its ID.
func (s *MemoryProviderStore) GetProvider(_ context.Context, id string) (*models.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.providers[id]
	if !ok {
		return nil, ErrProviderNotFound
	}
	return p, nil
}

// CountProvidersByCity returns provider counts per city, largest first.
func (s *MemoryProviderStore) CountProvidersByCity(_ context.Context, limit int) ([]models.CityCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCity := make(map[string]int)
	for _, p := range s.providers {
		byCity[p.City]++
	}

	counts := make([]models.CityCount, 0, len(byCity))
	for city, count := range byCity {
		counts = append(counts, models.CityCount{City: city, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].City < counts[j].City
	})

	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

// ListProviderIDs returns all provider IDs in a stable order.
func (s *MemoryProviderStore) ListProviderIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.providers))
	for id := range s.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ComputeProviderStats aggregates review and appointment statistics for the
// given providers.
func (s *MemoryProviderStore) ComputeProviderStats(_ context.Context, providerIDs []string) ([]models.ProviderStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make([]models.ProviderStats, 0, len(providerIDs))
	for _, id := range providerIDs {
		if _, ok := s.providers[id]; !ok {
			continue
		}
		st := models.ProviderStats{ProviderID: id}

		var ratingSum int
		for _, r := range s.reviews {
			if r.ProviderID == id && r.IsApproved {
				ratingSum += r.Rating
				st.TotalReviews++
			}
		}
		if st.TotalReviews > 0 {
			st.AverageRating = float64(ratingSum) / float64(st.TotalReviews)
		}

		patients := make(map[string]struct{})
		for _, a := range s.appointments {
			if a.ProviderID == id {
				patients[a.PatientID] = struct{}{}
			}
		}
		st.TotalPatients = len(patients)

		stats = append(stats, st)
	}
	return stats, nil
}

// UpdateProviderStats applies recomputed statistics to the stored providers.
func (s *MemoryProviderStore) UpdateProviderStats(_ context.Context, stats []models.ProviderStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range stats {
		if p, ok := s.providers[st.ProviderID]; ok {
			p.AverageRating = st.AverageRating
			p.TotalReviews = st.TotalReviews
			p.TotalPatients = st.TotalPatients
		}
	}
	return nil
}

// CreateProvider inserts a provider.
func (s *MemoryProviderStore) CreateProvider(_ context.Context, provider *models.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[provider.ID] = provider
	return nil
}

// CreateReview inserts a review.
func (s *MemoryProviderStore) CreateReview(_ context.Context, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, review)
	return nil
}

// CreateAppointment inserts an appointment.
func (s *MemoryProviderStore) CreateAppointment(_ context.Context, appointment *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append(s.appointments, appointment)
	return nil
}
