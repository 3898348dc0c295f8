package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"healthbridge/internal/identity/models"
	"healthbridge/internal/sentinel"
	id "healthbridge/pkg/domain"
)

const uniqueViolation = "23505"

// Postgres reads the hospitals, doctors and patients directory tables.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) SavePatient(ctx context.Context, p *models.Patient) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO patients (id, health_uid, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET health_uid = EXCLUDED.health_uid, name = EXCLUDED.name
	`, uuid.UUID(p.ID), p.HealthUID, p.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save patient: %w", err)
	}
	return nil
}

func (s *Postgres) SaveDoctor(ctx context.Context, d *models.Doctor) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO doctors (id, doctor_uid, name, hospital_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET doctor_uid = EXCLUDED.doctor_uid, name = EXCLUDED.name
	`, uuid.UUID(d.ID), d.DoctorUID, d.Name, uuid.UUID(d.HospitalID))
	if err != nil {
		return fmt.Errorf("save doctor: %w", err)
	}
	return nil
}

func (s *Postgres) SaveHospital(ctx context.Context, h *models.Hospital) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hospitals (id, hospital_uid, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET hospital_uid = EXCLUDED.hospital_uid, name = EXCLUDED.name
	`, uuid.UUID(h.ID), h.HospitalUID, h.Name)
	if err != nil {
		return fmt.Errorf("save hospital: %w", err)
	}
	return nil
}

func (s *Postgres) FindPatientByHealthUID(ctx context.Context, healthUID string) (*models.Patient, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, health_uid, name FROM patients WHERE health_uid = $1`, healthUID)
	return scanPatient(row)
}

func (s *Postgres) FindPatientByID(ctx context.Context, patientID id.PatientID) (*models.Patient, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, health_uid, name FROM patients WHERE id = $1`, uuid.UUID(patientID))
	return scanPatient(row)
}

func (s *Postgres) FindDoctorByID(ctx context.Context, doctorID id.DoctorID) (*models.Doctor, error) {
	var (
		d          models.Doctor
		rawID      uuid.UUID
		hospitalID uuid.UUID
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, doctor_uid, name, hospital_id FROM doctors WHERE id = $1`, uuid.UUID(doctorID),
	).Scan(&rawID, &d.DoctorUID, &d.Name, &hospitalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find doctor: %w", err)
	}
	d.ID = id.DoctorID(rawID)
	d.HospitalID = id.HospitalID(hospitalID)
	return &d, nil
}

func (s *Postgres) FindHospitalByID(ctx context.Context, hospitalID id.HospitalID) (*models.Hospital, error) {
	var (
		h     models.Hospital
		rawID uuid.UUID
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, hospital_uid, name FROM hospitals WHERE id = $1`, uuid.UUID(hospitalID),
	).Scan(&rawID, &h.HospitalUID, &h.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find hospital: %w", err)
	}
	h.ID = id.HospitalID(rawID)
	return &h, nil
}

func scanPatient(row *sql.Row) (*models.Patient, error) {
	var (
		p     models.Patient
		rawID uuid.UUID
	)
	if err := row.Scan(&rawID, &p.HealthUID, &p.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	p.ID = id.PatientID(rawID)
	return &p, nil
}
