package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"wellcareplus/backend/internal/config"
	"wellcareplus/backend/internal/logging"
	"wellcareplus/backend/internal/repository"
	"wellcareplus/backend/pkg/models"
)

func main() {
	ctx := context.Background()
	logger := logging.NewLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	store := repository.NewPostgresProviderStore(pool)

	// Skip seeding if the catalog already has providers.
	existing, err := store.ListProviderIDs(ctx)
	if err != nil {
		log.Fatalf("Failed to list providers: %v", err)
	}
	if len(existing) > 0 {
		logger.Info("Catalog already has %d providers, skipping seed", len(existing))
		return
	}

	providers := sampleProviders()
	for _, p := range providers {
		if err := store.CreateProvider(ctx, p); err != nil {
			log.Printf("Failed to create provider %s: %v", p.FullName(), err)
			continue
		}
		logger.Info("Seeded provider %s (%s, %s)", p.FullName(), p.Specialty, p.City)

		// A couple of reviews and appointments per provider so the stats
		// refresh job has something to aggregate.
		for i := 0; i < p.TotalReviews; i++ {
			patientID := uuid.New().String()
			review := &models.Review{
				ID:         uuid.New().String(),
				ProviderID: p.ID,
				PatientID:  patientID,
				Rating:     4 + i%2,
				Comment:    "Very helpful consultation.",
				IsApproved: true,
				CreatedAt:  time.Now().AddDate(0, 0, -i),
			}
			if err := store.CreateReview(ctx, review); err != nil {
				log.Printf("Failed to create review: %v", err)
			}
			appointment := &models.Appointment{
				ID:         uuid.New().String(),
				ProviderID: p.ID,
				PatientID:  patientID,
				Date:       time.Now().AddDate(0, 0, -i),
				Status:     models.AppointmentCompleted,
				CreatedAt:  time.Now().AddDate(0, 0, -i),
			}
			if err := store.CreateAppointment(ctx, appointment); err != nil {
				log.Printf("Failed to create appointment: %v", err)
			}
		}
	}
	logger.Info("Seeding complete!")
}

func sampleProviders() []*models.Provider {
	now := time.Now()
	weekdays := func(days ...int) []models.AvailabilitySlot {
		slots := make([]models.AvailabilitySlot, 0, len(days))
		for _, d := range days {
			slots = append(slots, models.AvailabilitySlot{
				ID: uuid.New().String(), DayOfWeek: d,
				StartTime: "09:00", EndTime: "17:00", IsActive: true,
			})
		}
		return slots
	}

	seed := []*models.Provider{
		{
			FirstName: "Priya", LastName: "Sharma",
			Specialty: models.SpecialtyCardiology, Qualification: "MBBS, MD (Cardiology)",
			ExperienceYears: 14, ConsultationFee: 1200, City: "Delhi", State: "Delhi",
			ClinicName: "HeartCare Clinic", LanguagesSpoken: "English, Hindi",
			HospitalAffiliations: "Apollo Hospital", IsAvailable: true, IsVerified: true,
			AverageRating: 4.8, TotalReviews: 6,
		},
		{
			FirstName: "Arjun", LastName: "Mehta",
			Specialty: models.SpecialtyCardiology, Qualification: "MBBS, DM",
			ExperienceYears: 8, ConsultationFee: 800, City: "Mumbai", State: "Maharashtra",
			ClinicName: "Pulse Heart Centre", LanguagesSpoken: "English, Hindi, Marathi",
			IsAvailable: true, IsVerified: false,
			AverageRating: 4.2, TotalReviews: 3,
		},
		{
			FirstName: "Kavita", LastName: "Iyer",
			Specialty: models.SpecialtyPediatrics, Qualification: "MBBS, DCH",
			ExperienceYears: 11, ConsultationFee: 600, City: "Bengaluru", State: "Karnataka",
			ClinicName: "Little Steps Clinic", LanguagesSpoken: "English, Kannada, Tamil",
			IsAvailable: true, IsVerified: true,
			AverageRating: 4.6, TotalReviews: 5,
		},
		{
			FirstName: "Rahul", LastName: "Verma",
			Specialty: models.SpecialtyDermatology, Qualification: "MBBS, MD (Dermatology)",
			ExperienceYears: 6, ConsultationFee: 900, City: "Delhi", State: "Delhi",
			ClinicName: "SkinFirst", LanguagesSpoken: "English, Hindi",
			IsAvailable: true, IsVerified: true,
			AverageRating: 4.1, TotalReviews: 4,
		},
		{
			FirstName: "Sneha", LastName: "Patel",
			Specialty: models.SpecialtyGeneral, Qualification: "MBBS",
			ExperienceYears: 4, ConsultationFee: 400, City: "Ahmedabad", State: "Gujarat",
			LanguagesSpoken: "English, Hindi, Gujarati",
			IsAvailable: true, IsVerified: false,
			AverageRating: 3.9, TotalReviews: 2,
		},
	}

	for i, p := range seed {
		p.ID = uuid.New().String()
		p.CreatedAt = now.AddDate(0, 0, -30*(i+1))
		p.UpdatedAt = now
		p.AvailabilitySlots = weekdays(0, 2, 4)
		p.Specializations = []models.Specialization{
			{ID: uuid.New().String(), Name: string(p.Specialty), IsPrimary: true},
		}
	}
	return seed
}
