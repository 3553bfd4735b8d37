package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wellcareplus/backend/pkg/models"
)

// PostgresProviderStore is a PostgreSQL implementation of the ProviderStore
// interface. Each search composes a single SELECT with AND-combined
// predicates; multi-field text matching and availability matching use EXISTS
// subqueries so a provider can never appear twice in one result set.
type PostgresProviderStore struct {
	db *pgxpool.Pool
}

// NewPostgresProviderStore creates a new PostgresProviderStore.
func NewPostgresProviderStore(db *pgxpool.Pool) *PostgresProviderStore {
	return &PostgresProviderStore{db: db}
}

const providerColumns = `p.id, p.first_name, p.last_name, p.email, p.phone, p.specialty,
	p.qualification, p.experience_years, p.consultation_fee, p.city, p.state, p.address,
	p.bio, p.clinic_name, p.languages_spoken, p.hospital_affiliations, p.is_available,
	p.is_verified, p.average_rating, p.total_reviews, p.total_patients, p.created_at, p.updated_at`

// SearchProviders returns available providers matching the criteria.
func (s *PostgresProviderStore) SearchProviders(ctx context.Context, criteria SearchCriteria) ([]*models.Provider, error) {
	query, args := buildSearchQuery(criteria)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search providers: %w", err)
	}
	defer rows.Close()

	var providers []*models.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

// buildSearchQuery translates criteria into one SQL statement. Absent
// filters contribute no predicate; the availability restriction is always
// applied.
func buildSearchQuery(criteria SearchCriteria) (string, []any) {
	var sb strings.Builder
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sb.WriteString("SELECT " + providerColumns + " FROM providers p WHERE p.is_available = TRUE")

	if criteria.Specialty != "" {
		sb.WriteString(" AND p.specialty = " + arg(string(criteria.Specialty)))
	}
	if criteria.City != "" {
		sb.WriteString(" AND p.city ILIKE " + arg("%"+criteria.City+"%"))
	}
	if criteria.State != "" {
		sb.WriteString(" AND p.state ILIKE " + arg("%"+criteria.State+"%"))
	}
	if criteria.Query != "" {
		pattern := arg("%" + criteria.Query + "%")
		sb.WriteString(" AND (" +
			"p.first_name ILIKE " + pattern +
			" OR p.last_name ILIKE " + pattern +
			" OR p.qualification ILIKE " + pattern +
			" OR p.bio ILIKE " + pattern +
			" OR p.clinic_name ILIKE " + pattern +
			" OR p.hospital_affiliations ILIKE " + pattern +
			" OR EXISTS (SELECT 1 FROM specializations sp WHERE sp.provider_id = p.id AND sp.name ILIKE " + pattern + "))")
	}
	if criteria.MinExperience != nil {
		sb.WriteString(" AND p.experience_years >= " + arg(*criteria.MinExperience))
	}
	if criteria.MaxFee != nil {
		sb.WriteString(" AND p.consultation_fee <= " + arg(*criteria.MaxFee))
	}
	if criteria.MinRating != nil {
		sb.WriteString(" AND p.average_rating >= " + arg(*criteria.MinRating))
	}
	if criteria.MinReviews != nil {
		sb.WriteString(" AND p.total_reviews >= " + arg(*criteria.MinReviews))
	}
	if criteria.Language != "" {
		sb.WriteString(" AND p.languages_spoken ILIKE " + arg("%"+criteria.Language+"%"))
	}
	if criteria.VerifiedOnly {
		sb.WriteString(" AND p.is_verified = TRUE")
	}
	if criteria.AvailabilityDay != nil {
		sb.WriteString(" AND EXISTS (SELECT 1 FROM availability_slots av WHERE av.provider_id = p.id" +
			" AND av.day_of_week = " + arg(*criteria.AvailabilityDay) + " AND av.is_active = TRUE)")
	}

	sb.WriteString(" ORDER BY " + orderClause(criteria.SortBy))

	if criteria.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(criteria.Limit))
	}

	return sb.String(), args
}

// orderClause maps a sort order onto SQL. Every ordering ends with the
// provider ID so equal sort keys still produce a stable result.
func orderClause(sortBy models.SortOrder) string {
	switch sortBy {
	case models.SortByExperience:
		return "p.experience_years DESC, p.id ASC"
	case models.SortByFeeLow:
		return "p.consultation_fee ASC, p.id ASC"
	case models.SortByFeeHigh:
		return "p.consultation_fee DESC, p.id ASC"
	case models.SortByReviews:
		return "p.total_reviews DESC, p.id ASC"
	case models.SortByNewest:
		return "p.created_at DESC, p.id ASC"
	case models.SortByName:
		return "p.first_name ASC, p.last_name ASC, p.id ASC"
	case models.SortByRating, models.SortByRelevance:
		return "p.average_rating DESC, p.total_reviews DESC, p.id ASC"
	default:
		// Unknown sort names fall back to the relevance ordering.
		return "p.average_rating DESC, p.total_reviews DESC, p.id ASC"
	}
}

// GetProvider retrieves a provider by its ID.
func (s *PostgresProviderStore) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	row := s.db.QueryRow(ctx, "SELECT "+providerColumns+" FROM providers p WHERE p.id = $1", id)
	p, err := scanProvider(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return p, nil
}

// CountProvidersByCity returns provider counts per city, largest first.
func (s *PostgresProviderStore) CountProvidersByCity(ctx context.Context, limit int) ([]models.CityCount, error) {
	rows, err := s.db.Query(ctx,
		"SELECT city, COUNT(*) FROM providers GROUP BY city ORDER BY COUNT(*) DESC, city ASC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("count providers by city: %w", err)
	}
	defer rows.Close()

	var counts []models.CityCount
	for rows.Next() {
		var c models.CityCount
		if err := rows.Scan(&c.City, &c.Count); err != nil {
			return nil, fmt.Errorf("scan city count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// ListProviderIDs returns all provider IDs in a stable order.
func (s *PostgresProviderStore) ListProviderIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, "SELECT id FROM providers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list provider ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan provider id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ComputeProviderStats aggregates review and appointment statistics for the
// given providers in one query.
func (s *PostgresProviderStore) ComputeProviderStats(ctx context.Context, providerIDs []string) ([]models.ProviderStats, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id,
			COALESCE(AVG(r.rating) FILTER (WHERE r.is_approved), 0),
			COUNT(r.id) FILTER (WHERE r.is_approved),
			(SELECT COUNT(DISTINCT a.patient_id) FROM appointments a WHERE a.provider_id = p.id)
		FROM providers p
		LEFT JOIN reviews r ON r.provider_id = p.id
		WHERE p.id = ANY($1)
		GROUP BY p.id
		ORDER BY p.id`, providerIDs)
	if err != nil {
		return nil, fmt.Errorf("compute provider stats: %w", err)
	}
	defer rows.Close()

	var stats []models.ProviderStats
	for rows.Next() {
		var st models.ProviderStats
		if err := rows.Scan(&st.ProviderID, &st.AverageRating, &st.TotalReviews, &st.TotalPatients); err != nil {
			return nil, fmt.Errorf("scan provider stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// UpdateProviderStats persists recomputed statistics as a single bulk UPDATE.
func (s *PostgresProviderStore) UpdateProviderStats(ctx context.Context, stats []models.ProviderStats) error {
	if len(stats) == 0 {
		return nil
	}

	ids := make([]string, len(stats))
	ratings := make([]float64, len(stats))
	reviews := make([]int, len(stats))
	patients := make([]int, len(stats))
	for i, st := range stats {
		ids[i] = st.ProviderID
		ratings[i] = st.AverageRating
		reviews[i] = st.TotalReviews
		patients[i] = st.TotalPatients
	}

	_, err := s.db.Exec(ctx, `
		UPDATE providers p SET
			average_rating = u.average_rating,
			total_reviews = u.total_reviews,
			total_patients = u.total_patients,
			updated_at = now()
		FROM (
			SELECT unnest($1::uuid[]) AS id,
				unnest($2::float8[]) AS average_rating,
				unnest($3::int[]) AS total_reviews,
				unnest($4::int[]) AS total_patients
		) u
		WHERE p.id = u.id`, ids, ratings, reviews, patients)
	if err != nil {
		return fmt.Errorf("update provider stats: %w", err)
	}
	return nil
}

// CreateProvider inserts a provider along with its specializations and
// availability slots.
func (s *PostgresProviderStore) CreateProvider(ctx context.Context, provider *models.Provider) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO providers (id, first_name, last_name, email, phone, specialty, qualification,
			experience_years, consultation_fee, city, state, address, bio, clinic_name,
			languages_spoken, hospital_affiliations, is_available, is_verified,
			average_rating, total_reviews, total_patients, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		provider.ID, provider.FirstName, provider.LastName, provider.Email, provider.Phone,
		string(provider.Specialty), provider.Qualification, provider.ExperienceYears,
		provider.ConsultationFee, provider.City, provider.State, provider.Address, provider.Bio,
		provider.ClinicName, provider.LanguagesSpoken, provider.HospitalAffiliations,
		provider.IsAvailable, provider.IsVerified, provider.AverageRating, provider.TotalReviews,
		provider.TotalPatients, provider.CreatedAt, provider.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	for _, sp := range provider.Specializations {
		_, err := s.db.Exec(ctx,
			"INSERT INTO specializations (id, provider_id, name, is_primary) VALUES ($1, $2, $3, $4)",
			sp.ID, provider.ID, sp.Name, sp.IsPrimary)
		if err != nil {
			return fmt.Errorf("create specialization: %w", err)
		}
	}
	for _, slot := range provider.AvailabilitySlots {
		_, err := s.db.Exec(ctx,
			"INSERT INTO availability_slots (id, provider_id, day_of_week, start_time, end_time, is_active) VALUES ($1, $2, $3, $4, $5, $6)",
			slot.ID, provider.ID, slot.DayOfWeek, slot.StartTime, slot.EndTime, slot.IsActive)
		if err != nil {
			return fmt.Errorf("create availability slot: %w", err)
		}
	}
	return nil
}

// CreateReview inserts a review.
func (s *PostgresProviderStore) CreateReview(ctx context.Context, review *models.Review) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO reviews (id, provider_id, patient_id, rating, title, comment, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		review.ID, review.ProviderID, review.PatientID, review.Rating, review.Title,
		review.Comment, review.IsApproved, review.CreatedAt)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// CreateAppointment inserts an appointment.
func (s *PostgresProviderStore) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO appointments (id, provider_id, patient_id, appointment_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		appointment.ID, appointment.ProviderID, appointment.PatientID, appointment.Date,
		string(appointment.Status), appointment.CreatedAt)
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

func scanProvider(row pgx.Row) (*models.Provider, error) {
	var p models.Provider
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Specialty,
		&p.Qualification, &p.ExperienceYears, &p.ConsultationFee, &p.City, &p.State, &p.Address,
		&p.Bio, &p.ClinicName, &p.LanguagesSpoken, &p.HospitalAffiliations, &p.IsAvailable,
		&p.IsVerified, &p.AverageRating, &p.TotalReviews, &p.TotalPatients, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
