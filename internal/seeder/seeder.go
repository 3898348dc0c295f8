// Package seeder loads a fixed demo directory of hospitals, doctors and
// patients. IDs are stable so tokengen can mint tokens for the same people.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"healthbridge/internal/identity/models"
	id "healthbridge/pkg/domain"
)

// DirectoryWriter is implemented by both identity stores.
type DirectoryWriter interface {
	SaveHospital(ctx context.Context, h *models.Hospital) error
	SaveDoctor(ctx context.Context, d *models.Doctor) error
	SavePatient(ctx context.Context, p *models.Patient) error
}

var (
	Hospitals = []*models.Hospital{
		{ID: id.HospitalID(uuid.MustParse("0b6a6f0e-5f1c-4d7a-9a52-000000000001")), HospitalUID: "HSP-STMARY", Name: "St. Mary's General"},
		{ID: id.HospitalID(uuid.MustParse("0b6a6f0e-5f1c-4d7a-9a52-000000000002")), HospitalUID: "HSP-RIVERSIDE", Name: "Riverside Clinic"},
	}

	Doctors = []*models.Doctor{
		{ID: id.DoctorID(uuid.MustParse("6d1e3c55-2a7b-4b0e-8f31-000000000001")), DoctorUID: "DOC-0000001", Name: "Dr. Amara Okafor", HospitalID: Hospitals[0].ID},
		{ID: id.DoctorID(uuid.MustParse("6d1e3c55-2a7b-4b0e-8f31-000000000002")), DoctorUID: "DOC-0000002", Name: "Dr. Lukas Brandt", HospitalID: Hospitals[0].ID},
		{ID: id.DoctorID(uuid.MustParse("6d1e3c55-2a7b-4b0e-8f31-000000000003")), DoctorUID: "DOC-0000003", Name: "Dr. Mei Tanaka", HospitalID: Hospitals[1].ID},
	}

	Patients = []*models.Patient{
		{ID: id.PatientID(uuid.MustParse("9f4c2b1a-7e3d-4c6b-a1d2-000000000001")), HealthUID: "HB-A1B2C3D4", Name: "Jordan Reyes"},
		{ID: id.PatientID(uuid.MustParse("9f4c2b1a-7e3d-4c6b-a1d2-000000000002")), HealthUID: "HB-E5F6G7H8", Name: "Sam Novak"},
		{ID: id.PatientID(uuid.MustParse("9f4c2b1a-7e3d-4c6b-a1d2-000000000003")), HealthUID: "HB-J9K0L1M2", Name: "Priya Raman"},
	}
)

// Seeder populates an identity directory with demo data
type Seeder struct {
	directory DirectoryWriter
	logger    *slog.Logger
}

func New(directory DirectoryWriter, logger *slog.Logger) *Seeder {
	return &Seeder{directory: directory, logger: logger}
}

// SeedAll writes every demo entity. Both stores upsert, so it is safe to
// run on each start.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo directory...")

	for _, h := range Hospitals {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("invalid demo hospital %s: %w", h.HospitalUID, err)
		}
		if err := s.directory.SaveHospital(ctx, h); err != nil {
			return fmt.Errorf("failed to seed hospital %s: %w", h.HospitalUID, err)
		}
	}
	for _, d := range Doctors {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("invalid demo doctor %s: %w", d.DoctorUID, err)
		}
		if err := s.directory.SaveDoctor(ctx, d); err != nil {
			return fmt.Errorf("failed to seed doctor %s: %w", d.DoctorUID, err)
		}
	}
	for _, p := range Patients {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid demo patient %s: %w", p.HealthUID, err)
		}
		if err := s.directory.SavePatient(ctx, p); err != nil {
			return fmt.Errorf("failed to seed patient %s: %w", p.HealthUID, err)
		}
	}

	s.logger.Info("demo directory seeded",
		"hospitals", len(Hospitals),
		"doctors", len(Doctors),
		"patients", len(Patients),
	)
	return nil
}
