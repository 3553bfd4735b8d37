// Package models defines the domain models for the provider search service
package models

import (
	"time"
)

// Specialty represents a provider's medical specialty
type Specialty string

const (
	SpecialtyGeneral          Specialty = "general"
	SpecialtyCardiology       Specialty = "cardiology"
	SpecialtyDermatology      Specialty = "dermatology"
	SpecialtyNeurology        Specialty = "neurology"
	SpecialtyOrthopedics      Specialty = "orthopedics"
	SpecialtyOphthalmology    Specialty = "ophthalmology"
	SpecialtyENT              Specialty = "ent"
	SpecialtyGynecology       Specialty = "gynecology"
	SpecialtyPediatrics       Specialty = "pediatrics"
	SpecialtyPsychiatry       Specialty = "psychiatry"
	SpecialtyPulmonology      Specialty = "respiratory"
	SpecialtyGastroenterology Specialty = "gastroenterology"
	SpecialtyEndocrinology    Specialty = "endocrinology"
	SpecialtyUrology          Specialty = "urology"
	SpecialtyOncology         Specialty = "oncology"
	SpecialtyRheumatology     Specialty = "rheumatology"
	SpecialtyAnesthesiology   Specialty = "anesthesiology"
	SpecialtyRadiology        Specialty = "radiology"
	SpecialtyPathology        Specialty = "pathology"
	SpecialtyEmergency        Specialty = "emergency"
)

var specialties = map[Specialty]struct{}{
	SpecialtyGeneral: {}, SpecialtyCardiology: {}, SpecialtyDermatology: {},
	SpecialtyNeurology: {}, SpecialtyOrthopedics: {}, SpecialtyOphthalmology: {},
	SpecialtyENT: {}, SpecialtyGynecology: {}, SpecialtyPediatrics: {},
	SpecialtyPsychiatry: {}, SpecialtyPulmonology: {}, SpecialtyGastroenterology: {},
	SpecialtyEndocrinology: {}, SpecialtyUrology: {}, SpecialtyOncology: {},
	SpecialtyRheumatology: {}, SpecialtyAnesthesiology: {}, SpecialtyRadiology: {},
	SpecialtyPathology: {}, SpecialtyEmergency: {},
}

// ParseSpecialty reports whether raw names a known specialty.
func ParseSpecialty(raw string) (Specialty, bool) {
	s := Specialty(raw)
	_, ok := specialties[s]
	return s, ok
}

// SortOrder represents a named ordering for provider search results
type SortOrder string

const (
	SortByRating     SortOrder = "rating"
	SortByExperience SortOrder = "experience"
	SortByFeeLow     SortOrder = "fee_low"
	SortByFeeHigh    SortOrder = "fee_high"
	SortByReviews    SortOrder = "reviews"
	SortByNewest     SortOrder = "newest"
	SortByName       SortOrder = "name"
	// SortByRelevance orders by rating then review count, same as SortByRating.
	// The scoring never looks at the active text query; a true relevance rank
	// was never implemented upstream and callers depend on this ordering.
	SortByRelevance SortOrder = "relevance"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentNoShow    AppointmentStatus = "no_show"
)

// Provider represents a bookable healthcare provider in the catalog
type Provider struct {
	ID                   string    `json:"id" db:"id"`
	FirstName            string    `json:"first_name" db:"first_name"`
	LastName             string    `json:"last_name" db:"last_name"`
	Email                string    `json:"email,omitempty" db:"email"`
	Phone                string    `json:"phone,omitempty" db:"phone"`
	Specialty            Specialty `json:"specialty" db:"specialty"`
	Qualification        string    `json:"qualification" db:"qualification"`
	ExperienceYears      int       `json:"experience_years" db:"experience_years"`
	ConsultationFee      float64   `json:"consultation_fee" db:"consultation_fee"`
	City                 string    `json:"city" db:"city"`
	State                string    `json:"state" db:"state"`
	Address              string    `json:"address,omitempty" db:"address"`
	Bio                  string    `json:"bio,omitempty" db:"bio"`
	ClinicName           string    `json:"clinic_name,omitempty" db:"clinic_name"`
	LanguagesSpoken      string    `json:"languages_spoken" db:"languages_spoken"`
	HospitalAffiliations string    `json:"hospital_affiliations,omitempty" db:"hospital_affiliations"`
	IsAvailable          bool      `json:"is_available" db:"is_available"`
	IsVerified           bool      `json:"is_verified" db:"is_verified"`

	// Denormalized statistics, recomputed by the stats refresh job.
	AverageRating float64 `json:"average_rating" db:"average_rating"`
	TotalReviews  int     `json:"total_reviews" db:"total_reviews"`
	TotalPatients int     `json:"total_patients" db:"total_patients"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Relations, populated only where the store loads them.
	Specializations   []Specialization   `json:"specializations,omitempty"`
	AvailabilitySlots []AvailabilitySlot `json:"availability_slots,omitempty"`
}

// FullName returns the provider's display name.
func (p *Provider) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Specialization represents an additional named specialization for a provider
type Specialization struct {
	ID         string `json:"id" db:"id"`
	ProviderID string `json:"provider_id" db:"provider_id"`
	Name       string `json:"name" db:"name"`
	IsPrimary  bool   `json:"is_primary" db:"is_primary"`
}

// AvailabilitySlot represents a recurring weekly availability window.
// DayOfWeek runs 0=Monday through 6=Sunday.
type AvailabilitySlot struct {
	ID         string `json:"id" db:"id"`
	ProviderID string `json:"provider_id" db:"provider_id"`
	DayOfWeek  int    `json:"day_of_week" db:"day_of_week"`
	StartTime  string `json:"start_time" db:"start_time"`
	EndTime    string `json:"end_time" db:"end_time"`
	IsActive   bool   `json:"is_active" db:"is_active"`
}

// Review represents a patient review of a provider
type Review struct {
	ID         string    `json:"id" db:"id"`
	ProviderID string    `json:"provider_id" db:"provider_id"`
	PatientID  string    `json:"patient_id" db:"patient_id"`
	Rating     int       `json:"rating" db:"rating"`
	Title      string    `json:"title,omitempty" db:"title"`
	Comment    string    `json:"comment,omitempty" db:"comment"`
	IsApproved bool      `json:"is_approved" db:"is_approved"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Appointment represents a booked appointment with a provider
type Appointment struct {
	ID         string            `json:"id" db:"id"`
	ProviderID string            `json:"provider_id" db:"provider_id"`
	PatientID  string            `json:"patient_id" db:"patient_id"`
	Date       time.Time         `json:"date" db:"appointment_date"`
	Status     AppointmentStatus `json:"status" db:"status"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
}

// CityCount is one row of the providers-per-city aggregate report
type CityCount struct {
	City  string `json:"city" db:"city"`
	Count int    `json:"count" db:"count"`
}

// ProviderStats carries recomputed statistics for one provider during a
// bulk statistics update.
type ProviderStats struct {
	ProviderID    string  `json:"provider_id" db:"provider_id"`
	AverageRating float64 `json:"average_rating" db:"average_rating"`
	TotalReviews  int     `json:"total_reviews" db:"total_reviews"`
	TotalPatients int     `json:"total_patients" db:"total_patients"`
}
