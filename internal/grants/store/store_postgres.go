package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"healthbridge/internal/grants/models"
	"healthbridge/internal/sentinel"
	id "healthbridge/pkg/domain"
)

const foreignKeyViolation = "23503"

const (
	standardColumns  = `id, doctor_id, patient_id, hospital_id, status, created_at, approved_at, expires_at, revoked_at`
	emergencyColumns = `id, doctor_id, patient_id, hospital_id, reason, status, started_at, expires_at, revoked_at`
)

// PostgresStore persists grants in the standard_grants and emergency_grants tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) CreateStandard(ctx context.Context, g *models.StandardGrant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO standard_grants (`+standardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		uuid.UUID(g.ID),
		uuid.UUID(g.DoctorID),
		uuid.UUID(g.PatientID),
		uuid.UUID(g.HospitalID),
		string(g.Status),
		g.CreatedAt,
		g.ApprovedAt,
		g.ExpiresAt,
		g.RevokedAt,
	)
	if err != nil {
		return insertError("standard", err)
	}
	return nil
}

// insertError turns a foreign key violation into sentinel.ErrUnknownReference.
func insertError(kind string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("insert %s grant: %s: %w", kind, pgErr.ConstraintName, sentinel.ErrUnknownReference)
	}
	return fmt.Errorf("insert %s grant: %w", kind, err)
}

func (s *PostgresStore) FindStandardByID(ctx context.Context, grantID id.GrantID) (*models.StandardGrant, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+standardColumns+` FROM standard_grants WHERE id = $1`, uuid.UUID(grantID))
	g, err := scanStandard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find standard grant: %w", err)
	}
	return g, nil
}

// UpdateStandard writes the grant's status fields only if the row still has
// the expected status.
func (s *PostgresStore) UpdateStandard(ctx context.Context, g *models.StandardGrant, expected models.StandardStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE standard_grants
		SET status = $2, approved_at = $3, revoked_at = $4
		WHERE id = $1 AND status = $5
	`, uuid.UUID(g.ID), string(g.Status), g.ApprovedAt, g.RevokedAt, string(expected))
	if err != nil {
		return fmt.Errorf("update standard grant: %w", err)
	}
	return requireOneRow(res)
}

func (s *PostgresStore) ListStandardByPatient(ctx context.Context, patientID id.PatientID) ([]*models.StandardGrant, error) {
	return s.queryStandard(ctx, `
		SELECT `+standardColumns+` FROM standard_grants
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`, uuid.UUID(patientID))
}

func (s *PostgresStore) ListStandardByDoctor(ctx context.Context, doctorID id.DoctorID) ([]*models.StandardGrant, error) {
	return s.queryStandard(ctx, `
		SELECT `+standardColumns+` FROM standard_grants
		WHERE doctor_id = $1
		ORDER BY created_at DESC
	`, uuid.UUID(doctorID))
}

func (s *PostgresStore) ListActiveStandardByHospital(ctx context.Context, hospitalID id.HospitalID, now time.Time) ([]*models.StandardGrant, error) {
	return s.queryStandard(ctx, `
		SELECT `+standardColumns+` FROM standard_grants
		WHERE hospital_id = $1 AND status = 'APPROVED' AND expires_at > $2
		ORDER BY created_at DESC
	`, uuid.UUID(hospitalID), now)
}

func (s *PostgresStore) FindActiveStandard(ctx context.Context, doctorID id.DoctorID, patientID id.PatientID, now time.Time) (*models.StandardGrant, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+standardColumns+` FROM standard_grants
		WHERE doctor_id = $1 AND patient_id = $2 AND status = 'APPROVED' AND expires_at > $3
		ORDER BY expires_at DESC
		LIMIT 1
	`, uuid.UUID(doctorID), uuid.UUID(patientID), now)
	g, err := scanStandard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find active standard grant: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) ExpireStandard(ctx context.Context, now time.Time) (int64, error) {
	return s.bulkExpire(ctx, `
		UPDATE standard_grants SET status = 'EXPIRED'
		WHERE status = 'APPROVED' AND expires_at <= $1
	`, now)
}

func (s *PostgresStore) ExpirePendingStandard(ctx context.Context, now time.Time) (int64, error) {
	return s.bulkExpire(ctx, `
		UPDATE standard_grants SET status = 'EXPIRED'
		WHERE status = 'PENDING' AND expires_at <= $1
	`, now)
}

func (s *PostgresStore) CreateEmergency(ctx context.Context, g *models.EmergencyGrant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO emergency_grants (`+emergencyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		uuid.UUID(g.ID),
		uuid.UUID(g.DoctorID),
		uuid.UUID(g.PatientID),
		uuid.UUID(g.HospitalID),
		g.Reason,
		string(g.Status),
		g.StartedAt,
		g.ExpiresAt,
		g.RevokedAt,
	)
	if err != nil {
		return insertError("emergency", err)
	}
	return nil
}

func (s *PostgresStore) FindEmergencyByID(ctx context.Context, grantID id.EmergencyGrantID) (*models.EmergencyGrant, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+emergencyColumns+` FROM emergency_grants WHERE id = $1`, uuid.UUID(grantID))
	g, err := scanEmergency(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find emergency grant: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) UpdateEmergency(ctx context.Context, g *models.EmergencyGrant, expected models.EmergencyStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE emergency_grants
		SET status = $2, revoked_at = $3
		WHERE id = $1 AND status = $4
	`, uuid.UUID(g.ID), string(g.Status), g.RevokedAt, string(expected))
	if err != nil {
		return fmt.Errorf("update emergency grant: %w", err)
	}
	return requireOneRow(res)
}

func (s *PostgresStore) ListEmergencyByPatient(ctx context.Context, patientID id.PatientID) ([]*models.EmergencyGrant, error) {
	return s.queryEmergency(ctx, `
		SELECT `+emergencyColumns+` FROM emergency_grants
		WHERE patient_id = $1
		ORDER BY started_at DESC
	`, uuid.UUID(patientID))
}

func (s *PostgresStore) ListEmergencyByDoctor(ctx context.Context, doctorID id.DoctorID) ([]*models.EmergencyGrant, error) {
	return s.queryEmergency(ctx, `
		SELECT `+emergencyColumns+` FROM emergency_grants
		WHERE doctor_id = $1
		ORDER BY started_at DESC
	`, uuid.UUID(doctorID))
}

func (s *PostgresStore) ListActiveEmergencyByHospital(ctx context.Context, hospitalID id.HospitalID, now time.Time) ([]*models.EmergencyGrant, error) {
	return s.queryEmergency(ctx, `
		SELECT `+emergencyColumns+` FROM emergency_grants
		WHERE hospital_id = $1 AND status = 'ACTIVE' AND expires_at > $2
		ORDER BY started_at DESC
	`, uuid.UUID(hospitalID), now)
}

func (s *PostgresStore) FindActiveEmergency(ctx context.Context, doctorID id.DoctorID, patientID id.PatientID, now time.Time) (*models.EmergencyGrant, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+emergencyColumns+` FROM emergency_grants
		WHERE doctor_id = $1 AND patient_id = $2 AND status = 'ACTIVE' AND expires_at > $3
		ORDER BY expires_at DESC
		LIMIT 1
	`, uuid.UUID(doctorID), uuid.UUID(patientID), now)
	g, err := scanEmergency(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find active emergency grant: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) ExpireEmergency(ctx context.Context, now time.Time) (int64, error) {
	return s.bulkExpire(ctx, `
		UPDATE emergency_grants SET status = 'EXPIRED'
		WHERE status = 'ACTIVE' AND expires_at <= $1
	`, now)
}

func (s *PostgresStore) bulkExpire(ctx context.Context, query string, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("expire grants: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expire grants rows affected: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) queryStandard(ctx context.Context, query string, args ...any) ([]*models.StandardGrant, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list standard grants: %w", err)
	}
	defer rows.Close()

	var out []*models.StandardGrant
	for rows.Next() {
		g, err := scanStandard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan standard grant: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate standard grants: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) queryEmergency(ctx context.Context, query string, args ...any) ([]*models.EmergencyGrant, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list emergency grants: %w", err)
	}
	defer rows.Close()

	var out []*models.EmergencyGrant
	for rows.Next() {
		g, err := scanEmergency(rows)
		if err != nil {
			return nil, fmt.Errorf("scan emergency grant: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emergency grants: %w", err)
	}
	return out, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func scanStandard(row rowScanner) (*models.StandardGrant, error) {
	var (
		g                                  models.StandardGrant
		grantID, doctorID, patientID, hosp uuid.UUID
		status                             string
		approvedAt, revokedAt              sql.NullTime
	)
	if err := row.Scan(&grantID, &doctorID, &patientID, &hosp, &status, &g.CreatedAt, &approvedAt, &g.ExpiresAt, &revokedAt); err != nil {
		return nil, err
	}
	g.ID = id.GrantID(grantID)
	g.DoctorID = id.DoctorID(doctorID)
	g.PatientID = id.PatientID(patientID)
	g.HospitalID = id.HospitalID(hosp)
	g.Status = models.StandardStatus(status)
	g.ApprovedAt = nullTime(approvedAt)
	g.RevokedAt = nullTime(revokedAt)
	return &g, nil
}

func scanEmergency(row rowScanner) (*models.EmergencyGrant, error) {
	var (
		g                                  models.EmergencyGrant
		grantID, doctorID, patientID, hosp uuid.UUID
		status                             string
		revokedAt                          sql.NullTime
	)
	if err := row.Scan(&grantID, &doctorID, &patientID, &hosp, &g.Reason, &status, &g.StartedAt, &g.ExpiresAt, &revokedAt); err != nil {
		return nil, err
	}
	g.ID = id.EmergencyGrantID(grantID)
	g.DoctorID = id.DoctorID(doctorID)
	g.PatientID = id.PatientID(patientID)
	g.HospitalID = id.HospitalID(hosp)
	g.Status = models.EmergencyStatus(status)
	g.RevokedAt = nullTime(revokedAt)
	return &g, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
